package domain

// QueryKind tells a ProjectQuery's variants apart.
type QueryKind int

const (
	QueryCurrent QueryKind = iota + 1
	QueryByID
)

// ProjectQuery selects one project for one owner: either the owner's most
// recently created project or a specific id.
type ProjectQuery struct {
	Kind    QueryKind
	ID      string
	OwnerID string
}

// Current selects the owner's most recently created project.
func Current(ownerID string) ProjectQuery {
	return ProjectQuery{Kind: QueryCurrent, OwnerID: ownerID}
}

// ByID selects project id, provided ownerID owns it.
func ByID(id, ownerID string) ProjectQuery {
	return ProjectQuery{Kind: QueryByID, ID: id, OwnerID: ownerID}
}

func (q ProjectQuery) String() string {
	switch q.Kind {
	case QueryCurrent:
		return "current"
	case QueryByID:
		return "id:" + q.ID
	default:
		return "invalid"
	}
}
