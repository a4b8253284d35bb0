package platform

import "github.com/julianstephens/medwatch/internal/constants"

// Permissions reports the notification permission state: granted, denied or default.
type Permissions interface {
	Permission() string
}

// StaticPermission is a fixed permission state, usually from configuration.
type StaticPermission string

func (p StaticPermission) Permission() string {
	if p == "" {
		return constants.PermissionDefault
	}
	return string(p)
}

func Granted(p Permissions) bool {
	return p != nil && p.Permission() == constants.PermissionGranted
}
