package models

// Category groups products for navigation.
// The slug is the stable identifier used in URLs.
type Category struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null"`
	Slug string `gorm:"uniqueIndex;not null"`
}

func (c *Category) TableName() string {
	return "categories"
}

// SidebarCategory is one row of the category navigation sidebar:
// a category plus the number of products of any kind it contains.
type SidebarCategory struct {
	Name  string
	Slug  string
	Count int64
}

// mergeSidebarCounts builds the sidebar rows from the category list and one
// category_id->count map per product kind. Categories with no products in any
// kind keep a zero count.
func mergeSidebarCounts(categories []Category, perKind ...map[uint]int64) []SidebarCategory {
	rows := make([]SidebarCategory, len(categories))
	for i, c := range categories {
		var total int64
		for _, counts := range perKind {
			total += counts[c.ID]
		}
		rows[i] = SidebarCategory{Name: c.Name, Slug: c.Slug, Count: total}
	}
	return rows
}
