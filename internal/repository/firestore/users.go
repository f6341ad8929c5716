package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"courtledger-backend/internal/domain"
	"courtledger-backend/internal/logger"
	"courtledger-backend/internal/repository"
)

type userRepository struct {
	store *Store
}

var _ repository.UserRepository = (*userRepository)(nil)

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := r.store.opContext(ctx)
	defer cancel()

	ref := r.store.client.Collection(colUsers).NewDoc()
	if _, err := ref.Create(ctx, user); err != nil {
		return classify(err)
	}
	user.ID = ref.ID
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := r.store.opContext(ctx)
	defer cancel()

	snap, err := r.store.client.Collection(colUsers).Doc(id).Get(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return decodeUser(snap)
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := r.store.opContext(ctx)
	defer cancel()

	it := r.store.client.Collection(colUsers).Documents(ctx)
	defer it.Stop()

	var users []domain.User
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classify(err)
		}
		u, err := decodeUser(snap)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

func (r *userRepository) SetBalance(ctx context.Context, id string, balanceCents int64) error {
	ctx, cancel := r.store.opContext(ctx)
	defer cancel()

	_, err := r.store.client.Collection(colUsers).Doc(id).Update(ctx, []firestore.Update{
		{Path: "balanceCents", Value: balanceCents},
	})
	return classify(err)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.store.opContext(ctx)
	defer cancel()

	ref := r.store.client.Collection(colUsers).Doc(id)
	// Delete is a no-op on a missing document; check existence first so
	// deleting a vanished user reports NotFound.
	if _, err := ref.Get(ctx); err != nil {
		return classify(err)
	}
	_, err := ref.Delete(ctx)
	return classify(err)
}

// Watch streams full snapshots of the users collection. Each upstream
// change re-materializes the whole set; consumers must treat every
// delivery as a replacement, not a diff.
func (r *userRepository) Watch(ctx context.Context) (<-chan repository.UserSnapshot, error) {
	out := make(chan repository.UserSnapshot, 1)
	it := r.store.client.Collection(colUsers).Snapshots(ctx)

	go func() {
		defer close(out)
		defer it.Stop()

		var last []domain.User
		for {
			qs, err := it.Next()
			if err != nil {
				if status.Code(err) == codes.Canceled || ctx.Err() != nil {
					return
				}
				out <- repository.UserSnapshot{Users: last, Err: classify(err)}
				return
			}

			users, err := collectUsers(qs)
			if err != nil {
				logger.Error("Skipping corrupt users snapshot", "error", err)
				out <- repository.UserSnapshot{Users: last, Err: err}
				continue
			}
			last = users
			out <- repository.UserSnapshot{Users: users}
		}
	}()

	return out, nil
}

func collectUsers(qs *firestore.QuerySnapshot) ([]domain.User, error) {
	docs := qs.Documents
	defer docs.Stop()

	var users []domain.User
	for {
		snap, err := docs.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, classify(err)
		}
		u, err := decodeUser(snap)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, nil
}

// decodeUser enforces the document schema: a decode failure or a missing
// name is ErrCorrupt, never silently defaulted. An absent role means
// regular member.
func decodeUser(snap *firestore.DocumentSnapshot) (*domain.User, error) {
	var u domain.User
	if err := snap.DataTo(&u); err != nil {
		return nil, fmt.Errorf("%w: user %s: %v", domain.ErrCorrupt, snap.Ref.ID, err)
	}
	if u.Name == "" {
		return nil, fmt.Errorf("%w: user %s has no name", domain.ErrCorrupt, snap.Ref.ID)
	}
	if u.Role == "" {
		u.Role = domain.UserRoleMember
	}
	u.ID = snap.Ref.ID
	return &u, nil
}
