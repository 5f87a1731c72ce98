// Package mapper holds the slice helper shared by persistence mappers.
package mapper

import "fmt"

// ToEntities converts persistence rows into domain entities. Nil rows and
// rows that map to nil are skipped; a mapping failure names the kind and ID
// of the offending row. The result is never nil.
func ToEntities[M any, E any](
	kind string,
	rows []*M,
	toEntity func(*M) (*E, error),
	id func(*M) uint,
) ([]*E, error) {
	result := make([]*E, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		entity, err := toEntity(row)
		if err != nil {
			return nil, fmt.Errorf("failed to map %s %d: %w", kind, id(row), err)
		}
		if entity != nil {
			result = append(result, entity)
		}
	}
	return result, nil
}
