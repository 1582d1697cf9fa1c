package models

// Viewer identifies one browser's drill-down view. It is stored in the cookie session.
type Viewer struct {
	ID string
}
