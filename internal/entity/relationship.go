package entity

import "time"

// Friend is one directed edge. Two users are friends only when both directions exist.
type Friend struct {
	Friender  string    `gorm:"primaryKey;size:255" json:"friender"`
	Friendee  string    `gorm:"primaryKey;size:255;index" json:"friendee"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Mute hides the mutee's posts and comments from the muter's listings.
type Mute struct {
	Muter     string    `gorm:"primaryKey;size:255" json:"muter"`
	Mutee     string    `gorm:"primaryKey;size:255;index" json:"mutee"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// Block forbids new friend edges in either direction.
type Block struct {
	Blocker   string    `gorm:"primaryKey;size:255" json:"blocker"`
	Blockee   string    `gorm:"primaryKey;size:255;index" json:"blockee"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
