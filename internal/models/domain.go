package models

import "time"

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

type LoftStatus string

const (
	LoftAvailable   LoftStatus = "available"
	LoftOccupied    LoftStatus = "occupied"
	LoftMaintenance LoftStatus = "maintenance"
)

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
)

type OwnershipType string

const (
	OwnershipCompany    OwnershipType = "company"
	OwnershipThirdParty OwnershipType = "third_party"
)

type LoftOwner struct {
	ID            string        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name          string        `gorm:"not null" json:"name"`
	Email         string        `json:"email,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	Address       string        `json:"address,omitempty"`
	OwnershipType OwnershipType `gorm:"not null;default:'third_party'" json:"ownership_type"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

type Loft struct {
	ID                string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name              string     `gorm:"not null" json:"name"`
	Description       string     `json:"description,omitempty"`
	Address           string     `gorm:"not null" json:"address"`
	PricePerMonth     float64    `gorm:"column:price_per_month;not null" json:"price_per_month"`
	Status            LoftStatus `gorm:"type:loft_status;not null;default:'available'" json:"status"`
	OwnerID           *string    `gorm:"type:uuid" json:"owner_id,omitempty"`
	CompanyPercentage float64    `gorm:"not null;default:0" json:"company_percentage"`
	OwnerPercentage   float64    `gorm:"not null;default:100" json:"owner_percentage"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	Owner *LoftOwner `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

type Team struct {
	ID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedBy   *string   `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type TeamMember struct {
	ID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	TeamID    string    `gorm:"type:uuid;not null" json:"team_id"`
	UserID    string    `gorm:"type:uuid;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Task struct {
	ID          string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `gorm:"type:task_status;not null;default:'todo'" json:"status"`
	DueDate     *time.Time `gorm:"column:due_date" json:"due_date,omitempty"`
	AssignedTo  *string    `gorm:"type:uuid;column:assigned_to" json:"assigned_to,omitempty"`
	TeamID      *string    `gorm:"type:uuid" json:"team_id,omitempty"`
	LoftID      *string    `gorm:"type:uuid" json:"loft_id,omitempty"`
	CreatedBy   *string    `gorm:"type:uuid" json:"created_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Transaction struct {
	ID              string            `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Amount          float64           `gorm:"not null" json:"amount"`
	Description     string            `json:"description,omitempty"`
	TransactionType string            `gorm:"column:transaction_type;not null" json:"transaction_type"` // income|expense
	Status          TransactionStatus `gorm:"type:transaction_status;not null;default:'pending'" json:"status"`
	Date            *time.Time        `json:"date,omitempty"`
	Category        string            `json:"category,omitempty"`
	TaskID          *string           `gorm:"type:uuid" json:"task_id,omitempty"`
	LoftID          *string           `gorm:"type:uuid" json:"loft_id,omitempty"`
	UserID          *string           `gorm:"type:uuid" json:"user_id,omitempty"`
	ProcessedAt     *time.Time        `json:"processed_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

type Category struct {
	ID          string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description string    `json:"description,omitempty"`
	Type        string    `gorm:"not null" json:"type"` // income|expense
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
