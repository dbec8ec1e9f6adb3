package store

import (
	"fmt"
	"strings"

	"github.com/dotcommander/magis/internal/types"
)

func sinID(s types.Sin) string { return s.ID }
func obraID(b types.BuenaObra) string { return b.ID }
func personTypeID(p types.PersonType) string { return p.ID }
func activityID(a types.Activity) string { return a.ID }
func condID(c types.Condicionante) string { return c.ID }
func sessionKey(e types.ExamSession) string { return e.ID }
func noteID(n types.Note) string { return n.ID }

// Sins returns the sin catalog.
func (s *Store) Sins() ([]types.Sin, error) { return load[types.Sin](s, CollSins) }

// Sin returns one sin by id.
func (s *Store) Sin(id string) (types.Sin, error) { return find(s, CollSins, id, sinID) }

// SaveSin validates and upserts a sin, assigning an id when empty.
func (s *Store) SaveSin(sin types.Sin) (types.Sin, error) {
	if err := sin.Validate(); err != nil {
		return types.Sin{}, fmt.Errorf("save sin: %w", err)
	}
	if sin.ID == "" {
		sin.ID = newID()
	}
	if err := upsert(s, CollSins, sin, sinID); err != nil {
		return types.Sin{}, fmt.Errorf("save sin: %w", err)
	}
	return sin, nil
}

// DeleteSin removes a sin. Its historical events stay in the log.
func (s *Store) DeleteSin(id string) error { return remove(s, CollSins, id, sinID) }

// BuenasObras returns the good-work catalog.
func (s *Store) BuenasObras() ([]types.BuenaObra, error) {
	return load[types.BuenaObra](s, CollBuenasObras)
}

// BuenaObra returns one good work by id.
func (s *Store) BuenaObra(id string) (types.BuenaObra, error) {
	return find(s, CollBuenasObras, id, obraID)
}

// SaveBuenaObra validates and upserts a good work, assigning an id when empty.
func (s *Store) SaveBuenaObra(b types.BuenaObra) (types.BuenaObra, error) {
	if err := b.Validate(); err != nil {
		return types.BuenaObra{}, fmt.Errorf("save good work: %w", err)
	}
	if b.ID == "" {
		b.ID = newID()
	}
	if err := upsert(s, CollBuenasObras, b, obraID); err != nil {
		return types.BuenaObra{}, fmt.Errorf("save good work: %w", err)
	}
	return b, nil
}

// DeleteBuenaObra removes a good work.
func (s *Store) DeleteBuenaObra(id string) error {
	return remove(s, CollBuenasObras, id, obraID)
}

// PersonTypes returns the person-type catalog.
func (s *Store) PersonTypes() ([]types.PersonType, error) {
	return load[types.PersonType](s, CollPersonTypes)
}

// SavePersonType upserts a person type.
func (s *Store) SavePersonType(p types.PersonType) (types.PersonType, error) {
	if strings.TrimSpace(p.Name) == "" {
		return types.PersonType{}, fmt.Errorf("save person type: %w: name is empty", types.ErrInvalid)
	}
	if p.ID == "" {
		p.ID = newID()
	}
	return p, upsert(s, CollPersonTypes, p, personTypeID)
}

// DeletePersonType removes a person type.
func (s *Store) DeletePersonType(id string) error {
	return remove(s, CollPersonTypes, id, personTypeID)
}

// Activities returns the activity catalog.
func (s *Store) Activities() ([]types.Activity, error) {
	return load[types.Activity](s, CollActivities)
}

// SaveActivity upserts an activity.
func (s *Store) SaveActivity(a types.Activity) (types.Activity, error) {
	if strings.TrimSpace(a.Name) == "" {
		return types.Activity{}, fmt.Errorf("save activity: %w: name is empty", types.ErrInvalid)
	}
	if a.ID == "" {
		a.ID = newID()
	}
	return a, upsert(s, CollActivities, a, activityID)
}

// DeleteActivity removes an activity.
func (s *Store) DeleteActivity(id string) error {
	return remove(s, CollActivities, id, activityID)
}

// Condicionantes returns the conditioning-factor catalog.
func (s *Store) Condicionantes() ([]types.Condicionante, error) {
	return load[types.Condicionante](s, CollCondicionantes)
}

// SaveCondicionante upserts a conditioning factor.
func (s *Store) SaveCondicionante(c types.Condicionante) (types.Condicionante, error) {
	if strings.TrimSpace(c.Name) == "" {
		return types.Condicionante{}, fmt.Errorf("save condicionante: %w: name is empty", types.ErrInvalid)
	}
	if c.AppliesTo != "" && !c.AppliesTo.Valid() {
		return types.Condicionante{}, fmt.Errorf("save condicionante: %w: applies to %q", types.ErrInvalid, c.AppliesTo)
	}
	if c.ID == "" {
		c.ID = newID()
	}
	return c, upsert(s, CollCondicionantes, c, condID)
}

// DeleteCondicionante removes a conditioning factor. Events keep their
// snapshotted factor.
func (s *Store) DeleteCondicionante(id string) error {
	return remove(s, CollCondicionantes, id, condID)
}
