package identity

import "context"

// Seed creates every identity whose email is not yet taken and reports how
// many were created.
func Seed(ctx context.Context, store Store, identities []*Identity) (int, error) {
	created := 0
	for _, i := range identities {
		existing, err := store.FindByEmail(ctx, i.Email)
		if err != nil {
			return created, err
		}
		if existing != nil {
			continue
		}
		if err := store.Create(ctx, i); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
