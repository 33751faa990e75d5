package app

// Group is one API namespace mounted under the configured prefix
type Group struct {
	Name string
}

// Groups lists every API namespace served by both HTTP surfaces
var Groups = []Group{
	{Name: "rmv"},
	{Name: "spotify"},
	{Name: "freecodecamp"},
}

// GroupStatus is an entry of the API index
type GroupStatus struct {
	Route  string `json:"route"`
	Status string `json:"status"`
}

// GroupIndex reports which namespaces are mounted. mounted is called with each group name
func (a *App) GroupIndex(mounted func(name string) bool) []GroupStatus {
	index := make([]GroupStatus, 0, len(Groups))

	for _, group := range Groups {
		status := "not available"
		if mounted(group.Name) {
			status = "available"
		}

		index = append(index, GroupStatus{
			Route:  a.Config.APIRoute + "/" + group.Name,
			Status: status,
		})
	}

	return index
}
