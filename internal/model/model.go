// Package model holds the sample object graph served by idserver.
package model

// ParentModel is the top-level payload of /api/post.
type ParentModel struct {
	ParentId *int64
	Name     string
	Child    ChildModel
}

// ChildModel is nested under ParentModel.
type ChildModel struct {
	ChildId     int64
	Description string
}

// Sample returns the fixed graph returned by GET /api/post.
func Sample() ParentModel {
	parentID := int64(143563463467)
	return ParentModel{
		ParentId: &parentID,
		Name:     "Name",
		Child: ChildModel{
			ChildId:     423534645674,
			Description: "Desc",
		},
	}
}
