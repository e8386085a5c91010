package entities

// Offering is a palette in the reward catalog: a name and seven hex colors.
type Offering struct {
	OfferingName string `gorm:"column:OfferingName;type:varchar(128)" json:"OfferingName"`
	ColorHex1    string `gorm:"column:ColorHex1;type:char(6)" json:"ColorHex1"`
	ColorHex2    string `gorm:"column:ColorHex2;type:char(6)" json:"ColorHex2"`
	ColorHex3    string `gorm:"column:ColorHex3;type:char(6)" json:"ColorHex3"`
	ColorHex4    string `gorm:"column:ColorHex4;type:char(6)" json:"ColorHex4"`
	ColorHex5    string `gorm:"column:ColorHex5;type:char(6)" json:"ColorHex5"`
	ColorHex6    string `gorm:"column:ColorHex6;type:char(6)" json:"ColorHex6"`
	ColorHex7    string `gorm:"column:ColorHex7;type:char(6)" json:"ColorHex7"`
}

func (Offering) TableName() string { return "Offerings" }
