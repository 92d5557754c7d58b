package models

// CameraMark is a user-saved speed-camera position. Marks are global rather
// than per-vehicle, and are only appended or cleared wholesale.
type CameraMark struct {
	ID       int64    `bson:"id" json:"id"` // creation timestamp
	Name     string   `bson:"name" json:"name"`
	Location Location `bson:"location" json:"location"`
}
