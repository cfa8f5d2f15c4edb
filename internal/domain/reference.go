package domain

// RefItem is a read-only (id, name) option such as a campus or service type.
type RefItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RefList is an ordered option list.
type RefList []RefItem

// Label returns the display name for id.
func (l RefList) Label(id int) (string, bool) {
	for _, item := range l {
		if item.ID == id {
			return item.Name, true
		}
	}
	return "", false
}

// RefKind names one of the four reference collections.
type RefKind string

const (
	RefCampuses             RefKind = "campuses"
	RefAcademicPrograms     RefKind = "academic-programs"
	RefServiceTypes         RefKind = "service-types"
	RefAccompanimentCourses RefKind = "accompaniment-courses"
)

// RefKinds lists all reference collections.
func RefKinds() []RefKind {
	return []RefKind{RefCampuses, RefAcademicPrograms, RefServiceTypes, RefAccompanimentCourses}
}
