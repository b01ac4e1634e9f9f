package entity

import (
	"sort"
	"strconv"
)

type Community struct {
	ID          string   `json:"id" firestore:"-"`
	Name        string   `json:"name" firestore:"name"`
	Description string   `json:"description" firestore:"description"`
	Image       string   `json:"image" firestore:"image"`
	Members     []string `json:"members" firestore:"members"`
	// ActiveMembers maps a day key ("0" for Monday .. "6") to the users who
	// declared themselves available that day. Joining does not add anyone here.
	ActiveMembers map[string][]string `json:"active_members" firestore:"activeMembers"`
}

type CommunitySummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`
	MemberCount int    `json:"member_count"`
}

func (c *Community) Summary() CommunitySummary {
	return CommunitySummary{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Image:       c.Image,
		MemberCount: len(c.Members),
	}
}

func (c *Community) ActiveOn(day int) []string {
	if c.ActiveMembers == nil {
		return nil
	}
	return c.ActiveMembers[DayKey(day)]
}

// ActiveUserIDs is the union over all days, ascending. Keys that are not a
// valid day index are ignored.
func (c *Community) ActiveUserIDs() []string {
	seen := make(map[string]struct{})
	for key, ids := range c.ActiveMembers {
		day, err := strconv.Atoi(key)
		if err != nil || !ValidDay(day) {
			continue
		}
		for _, id := range ids {
			seen[id] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// WeekFor is the availability of userID restricted to this community.
func (c *Community) WeekFor(userID string) Week {
	var w Week
	for day := 0; day < DaysPerWeek; day++ {
		w[day] = contains(c.ActiveOn(day), userID)
	}
	return w
}

func (c *Community) HasMember(userID string) bool {
	return contains(c.Members, userID)
}
