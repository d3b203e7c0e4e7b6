package domain

// ResourceKind distinguishes the two unlockable catalog families.
type ResourceKind string

const (
	ResourcePicture ResourceKind = "profile_picture"
	ResourceWidget  ResourceKind = "dashboard_widget"
)

// Resource is an unlockable catalog entry (profile picture or dashboard
// widget). One entry per stage per kind by design, though the gate
// tolerates sparse catalogs.
type Resource struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	Kind          ResourceKind `json:"kind"`
	RequiredStage int          `json:"required_stage"`
	Premium       bool         `json:"premium"`
}

// ResourcePartition splits a catalog for a given stage and claim set.
// Claimed ∪ Unclaimed == Available; the two are disjoint.
type ResourcePartition struct {
	Available []Resource `json:"available"`
	Claimed   []Resource `json:"claimed"`
	Unclaimed []Resource `json:"unclaimed"`
	Locked    []Resource `json:"locked"`
}
