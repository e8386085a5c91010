package entities

// DefaultSpendablePoints is the balance of a user whose SpendablePoints
// column is NULL or missing from the deployment entirely.
const DefaultSpendablePoints = 100

// User represents an account in the Users table.
type User struct {
	Username        string  `gorm:"column:Username;primaryKey;type:varchar(255)" json:"Username"`
	PasswordHash    string  `gorm:"column:PasswordHash;not null" json:"-"`
	DormName        *string `gorm:"column:DormName;type:varchar(64)" json:"DormName"`
	SpendablePoints *int    `gorm:"column:SpendablePoints" json:"SpendablePoints"` // optional column
}

func (User) TableName() string { return "Users" }

// Balance returns the spendable balance, falling back to the default when unset.
func (u *User) Balance() int {
	if u.SpendablePoints == nil {
		return DefaultSpendablePoints
	}
	return *u.SpendablePoints
}

// Profile is the user shape returned to clients after login.
type Profile struct {
	Username        string  `json:"Username"`
	DormName        *string `json:"DormName"`
	SpendablePoints int     `json:"SpendablePoints"`
}
