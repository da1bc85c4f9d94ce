// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Category represents a hierarchical catalog category. The tree has no
// depth limit.
type Category struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description,omitempty"`
	ParentID    *string `json:"parent_id"`
	SortOrder   int     `json:"sort_order"`
	IsActive    bool    `json:"is_active"`
	CreatedAt   string  `json:"created_at,omitempty"`
	UpdatedAt   string  `json:"updated_at,omitempty"`

	// Populated by the tree endpoint only.
	Children []Category `json:"children,omitempty"`
}

// CategoryCreate is the payload sent to create a category.
type CategoryCreate struct {
	Name        string  `json:"name" form:"name" validate:"required,max=100"`
	Slug        string  `json:"slug" form:"slug" validate:"required,max=100"`
	Description string  `json:"description,omitempty" form:"description" validate:"max=500"`
	ParentID    *string `json:"parent_id,omitempty" form:"parent_id" validate:"omitempty,uuid"`
	SortOrder   int     `json:"sort_order" form:"sort_order" validate:"gte=0"`
	IsActive    bool    `json:"is_active" form:"is_active"`
}

// FlattenCategories walks a category tree depth-first and returns every
// node with its depth, for indented select options.
func FlattenCategories(tree []Category) []CategoryOption {
	var out []CategoryOption
	var walk func(nodes []Category, depth int)
	walk = func(nodes []Category, depth int) {
		for _, n := range nodes {
			out = append(out, CategoryOption{ID: n.ID, Name: n.Name, Depth: depth})
			walk(n.Children, depth+1)
		}
	}
	walk(tree, 0)
	return out
}

// CategoryOption is a flattened category used in select inputs.
type CategoryOption struct {
	ID    string
	Name  string
	Depth int
}
