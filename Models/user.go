package Models

import "gorm.io/gorm"

// Permission levels. Inspectors submit checklists; supervisors manage the
// catalog and the anomaly queue; admins manage users.
const (
	PermissionInspector  = 1
	PermissionSupervisor = 3
	PermissionAdmin      = 4
)

type User struct {
	gorm.Model
	Name       string `json:"name"`
	Email      string `json:"email" gorm:"uniqueIndex"`
	Password   []byte `json:"-"`
	Permission int    `json:"permission"`
}
