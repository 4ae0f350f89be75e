package domain

// Court belongs to exactly one club. Slots outside BusinessHours are never offered.
type Court struct {
	ID                int64
	ClubID            int64
	Name              string
	DefaultPriceCents int64 // per hour, used where no rule applies
	BusinessHours     TimeInterval
}

// Club is the owner of courts; managers administer its price rules.
type Club struct {
	ID         int64
	Name       string
	ManagerIDs []int64
}

// IsManager returns true if userID administers the club
func (c *Club) IsManager(userID int64) bool {
	for _, id := range c.ManagerIDs {
		if id == userID {
			return true
		}
	}
	return false
}
