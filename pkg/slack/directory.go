package slack

// Directory maps display names to Slack users.
type Directory struct {
	byName map[string]User
}

// NewDirectory indexes users by display name. When names collide the first user wins.
func NewDirectory(users []User) *Directory {
	d := &Directory{byName: make(map[string]User, len(users))}
	for _, u := range users {
		if _, ok := d.byName[u.Name]; !ok {
			d.byName[u.Name] = u
		}
	}
	return d
}

// OnVacation reports whether the person with the given display name is away.
// Unknown names are treated as available.
func (d *Directory) OnVacation(name string) bool {
	u, ok := d.byName[name]
	return ok && u.OnVacation()
}

// Recipient returns the Slack id to message for a display name.
// People who are away do not receive messages.
func (d *Directory) Recipient(name string) (string, bool) {
	u, ok := d.byName[name]
	if !ok || u.OnVacation() {
		return "", false
	}
	return u.ID, true
}

// Includes reports whether name should receive a report.
func (d *Directory) Includes(name string) bool {
	_, ok := d.Recipient(name)
	return ok
}
