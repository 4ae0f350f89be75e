package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-CourtBookingService/internal/domain"
)

// RuleSet is the validated set of price rules attached to one court.
// It is a value: Add, Replace and Remove return a new set and leave the receiver untouched.
type RuleSet struct {
	courtID int64
	rules   []domain.PriceRule
}

// NewRuleSet wraps rules already persisted for courtID. Rules of other courts are dropped.
func NewRuleSet(courtID int64, rules []domain.PriceRule) RuleSet {
	own := make([]domain.PriceRule, 0, len(rules))
	for _, r := range rules {
		if r.CourtID == courtID {
			own = append(own, r)
		}
	}
	return RuleSet{courtID: courtID, rules: own}
}

func (s RuleSet) CourtID() int64 {
	return s.courtID
}

// Rules returns a copy of the rules. Order carries no meaning.
func (s RuleSet) Rules() []domain.PriceRule {
	out := make([]domain.PriceRule, len(s.rules))
	copy(out, s.rules)
	return out
}

func (s RuleSet) Len() int {
	return len(s.rules)
}

// Get returns the rule with id.
func (s RuleSet) Get(id string) (domain.PriceRule, bool) {
	for _, r := range s.rules {
		if r.ID == id {
			return r, true
		}
	}
	return domain.PriceRule{}, false
}

// Add validates rule and returns the set with it appended.
// A missing ID is generated. Validation order: interval, activation, price, conflicts.
func (s RuleSet) Add(rule domain.PriceRule) (RuleSet, domain.PriceRule, error) {
	rule.CourtID = s.courtID
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	if _, exists := s.Get(rule.ID); exists {
		return s, domain.PriceRule{}, fmt.Errorf("%w: rule %s already exists", domain.ErrRuleConflict, rule.ID)
	}

	if err := ValidateRule(rule); err != nil {
		return s, domain.PriceRule{}, err
	}
	if err := CheckRuleConflict(s.courtID, rule, s.rules); err != nil {
		return s, domain.PriceRule{}, err
	}

	next := make([]domain.PriceRule, len(s.rules), len(s.rules)+1)
	copy(next, s.rules)
	next = append(next, rule)
	return RuleSet{courtID: s.courtID, rules: next}, rule, nil
}

// Replace validates rule against the set without the rule it replaces.
func (s RuleSet) Replace(rule domain.PriceRule) (RuleSet, error) {
	without, err := s.Remove(rule.ID)
	if err != nil {
		return s, err
	}
	next, _, err := without.Add(rule)
	if err != nil {
		return s, err
	}
	return next, nil
}

// Remove returns the set without rule id, or domain.ErrNotFound.
func (s RuleSet) Remove(id string) (RuleSet, error) {
	for i, r := range s.rules {
		if r.ID != id {
			continue
		}
		next := make([]domain.PriceRule, 0, len(s.rules)-1)
		next = append(next, s.rules[:i]...)
		next = append(next, s.rules[i+1:]...)
		return RuleSet{courtID: s.courtID, rules: next}, nil
	}
	return s, fmt.Errorf("%w: price rule %s on court %d", domain.ErrNotFound, id, s.courtID)
}

// ValidateRule runs the structural checks a rule must pass before conflict checking.
func ValidateRule(rule domain.PriceRule) error {
	if err := rule.Interval.Validate(); err != nil {
		return err
	}
	if rule.Activation == nil {
		return domain.ErrMutuallyExclusiveFields
	}
	if rule.PriceCents < 0 {
		return fmt.Errorf("%w: got %d", domain.ErrInvalidPrice, rule.PriceCents)
	}
	return nil
}

// BuildRule assembles a rule from its flat fields, checking the interval first and
// mutual exclusivity second.
func BuildRule(courtID int64, fields domain.ActivationFields, interval domain.TimeInterval, priceCents int64) (domain.PriceRule, error) {
	if err := interval.Validate(); err != nil {
		return domain.PriceRule{}, err
	}
	activation, err := fields.Activation()
	if err != nil {
		return domain.PriceRule{}, err
	}
	rule := domain.PriceRule{
		CourtID:    courtID,
		Activation: activation,
		Interval:   interval,
		PriceCents: priceCents,
	}
	if err := ValidateRule(rule); err != nil {
		return domain.PriceRule{}, err
	}
	return rule, nil
}
