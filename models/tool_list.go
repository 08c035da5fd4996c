package models

import (
	"time"

	"gorm.io/gorm"
)

// ToolListStatus: DRAFT -> {PENDING <-> IN_PROGRESS} -> COMPLETED, with
// CANCELLED reachable from any non-terminal state.
type ToolListStatus string

const (
	ToolListDraft      ToolListStatus = "DRAFT"
	ToolListPending    ToolListStatus = "PENDING"
	ToolListInProgress ToolListStatus = "IN_PROGRESS"
	ToolListCompleted  ToolListStatus = "COMPLETED"
	ToolListCancelled  ToolListStatus = "CANCELLED"
)

// ActiveToolListStatuses are the states that count against the one-active-
// list-per-project rule.
var ActiveToolListStatuses = []ToolListStatus{
	ToolListDraft, ToolListPending, ToolListInProgress,
}

// Terminal reports whether no further transition leaves s.
func (s ToolListStatus) Terminal() bool {
	return s == ToolListCompleted || s == ToolListCancelled
}

// ToolList is the set of tools required and allocated for one project.
type ToolList struct {
	gorm.Model
	ProjectID   uint           `json:"project_id" gorm:"not null;index"`
	Status      ToolListStatus `json:"status" gorm:"type:varchar(20);not null;default:'DRAFT'"`
	CompletedAt *time.Time     `json:"completed_at"`
	Notes       *string        `json:"notes"`
	Items       []ToolListItem `json:"items" gorm:"foreignKey:ToolListID"`
}

func (ToolList) TableName() string { return "tool_lists" }

// ToolListItem is one tool requirement line. ToolID and Quantity freeze once
// the item is allocated; an item can only be removed while unallocated.
type ToolListItem struct {
	gorm.Model
	ToolListID uint    `json:"tool_list_id" gorm:"not null;index"`
	ToolID     uint    `json:"tool_id" gorm:"not null"`
	Tool       Tool    `json:"tool" gorm:"foreignKey:ToolID"`
	Quantity   int     `json:"quantity" gorm:"not null"`
	Allocated  bool    `json:"allocated" gorm:"not null;default:false"`
	CheckoutID *string `json:"checkout_id"`
}

func (ToolListItem) TableName() string { return "tool_list_items" }

// ToolCheckout is one outstanding (or returned) checkout in the local
// checkout subsystem.
type ToolCheckout struct {
	ID             string     `json:"id" gorm:"type:uuid;primaryKey"`
	ToolID         uint       `json:"tool_id" gorm:"not null;index"`
	ProjectID      uint       `json:"project_id" gorm:"not null;index"`
	Quantity       int        `json:"quantity" gorm:"not null"`
	Notes          string     `json:"notes"`
	ReturnedAt     *time.Time `json:"returned_at" gorm:"index"`
	ConditionNotes string     `json:"condition_notes"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (ToolCheckout) TableName() string { return "tool_checkouts" }
