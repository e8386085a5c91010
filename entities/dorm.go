package entities

const (
	DormTinsley  = "Tinsley"
	DormSechrist = "Sechrist"
	DormGabaldon = "Gabaldon"
)

// CompetingDorms is the allow-list of dorms whose totals can be incremented.
var CompetingDorms = []string{DormTinsley, DormSechrist, DormGabaldon}

// IsCompetingDorm reports whether name is one of the allow-listed dorms.
func IsCompetingDorm(name string) bool {
	for _, d := range CompetingDorms {
		if d == name {
			return true
		}
	}
	return false
}

type Dorm struct {
	DormName    string `gorm:"column:DormName;primaryKey;type:varchar(64)" json:"DormName"`
	TotalPoints int    `gorm:"column:TotalPoints;not null" json:"TotalPoints"`
}

func (Dorm) TableName() string { return "Dorms" }

// DormDelta is an amount to add to a single dorm's total.
type DormDelta struct {
	DormName string
	Delta    int
}
