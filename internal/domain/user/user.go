package user

type User struct {
	ID    string `gorm:"primaryKey;column:id" json:"id"`
	Name  string `gorm:"not null;index;column:name" json:"name"`
	Email string `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Grade string `gorm:"not null;column:grade" json:"grade"`
}

func (User) TableName() string { return "user" }
