package storage

import "time"

// credentialRowID is the primary key of the single credentials row. The
// store holds at most one identity at a time.
const credentialRowID = 1

// CredentialModel is the GORM model for the durable credential tier
type CredentialModel struct {
	ID           int    `gorm:"primaryKey"`
	RefreshToken string `gorm:"not null;default:''"`
	UserID       int    `gorm:"not null;default:0"`
	Login        string `gorm:"not null;default:''"`
	Role         string `gorm:"not null;default:''"`
	DirectionID  *int   `gorm:"default:null"`
	DirectionNom *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for GORM
func (CredentialModel) TableName() string { return "credentials" }
