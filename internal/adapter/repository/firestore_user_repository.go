package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"outdoormatch/internal/domain/entity"
	"outdoormatch/internal/domain/repository"
	"outdoormatch/pkg/errors"
	"outdoormatch/pkg/logger"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

// userDocument reads the photo reference under every name older clients
// used. profilePhoto may be a plain URL or a {url, source} map.
type userDocument struct {
	entity.User
	ProfilePhoto interface{} `firestore:"profilePhoto"`
	PhotoURL     string      `firestore:"photoURL"`
	ProfileImage string      `firestore:"profileImage"`
}

func decodeUser(doc *firestore.DocumentSnapshot) (*entity.User, error) {
	var d userDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}

	user := d.User
	user.ID = doc.Ref.ID
	user.PhotoURL = photoURL(d.ProfilePhoto)
	if user.PhotoURL == "" {
		user.PhotoURL = d.PhotoURL
	}
	if user.PhotoURL == "" {
		user.PhotoURL = d.ProfileImage
	}
	return &user, nil
}

func photoURL(v interface{}) string {
	switch p := v.(type) {
	case string:
		return p
	case map[string]interface{}:
		if url, ok := p["url"].(string); ok {
			return url
		}
	}
	return ""
}

func (r *firestoreUserRepository) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(id)
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	_, err := r.doc(user.ID).Create(ctx, user)
	return storeError(err, "User", "create user")
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.doc(id).Get(ctx)
	if err != nil {
		return nil, storeError(err, "User", "get user")
	}
	return decodeUser(doc)
}

func (r *firestoreUserRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error) {
	if len(ids) == 0 {
		return []*entity.User{}, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, r.doc(id))
	}

	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, storeError(err, "User", "get users")
	}

	users := make([]*entity.User, 0, len(docs))
	for _, doc := range docs {
		if !doc.Exists() {
			logger.Debug("GetByIDs: skipping dangling user reference %s", doc.Ref.ID)
			continue
		}
		user, err := decodeUser(doc)
		if err != nil {
			logger.Warn("GetByIDs: skipping unreadable user %s: %v", doc.Ref.ID, err)
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *firestoreUserRepository) RecordCheck(ctx context.Context, actorID, targetID string) (*repository.CheckResult, error) {
	actorRef := r.doc(actorID)
	targetRef := r.doc(targetID)

	var result repository.CheckResult
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// All reads precede the write; Firestore retries the function if
		// either document changes before commit.
		actorSnap, err := tx.Get(actorRef)
		if err != nil {
			return err
		}
		targetSnap, err := tx.Get(targetRef)
		if err != nil {
			return err
		}

		actor, err := decodeUser(actorSnap)
		if err != nil {
			return err
		}
		target, err := decodeUser(targetSnap)
		if err != nil {
			return err
		}

		result = repository.CheckResult{
			Actor:          actor,
			Target:         target,
			AlreadyChecked: actor.HasChecked(targetID),
			Mutual:         target.HasChecked(actorID),
		}
		if result.AlreadyChecked {
			return nil
		}

		actor.CheckedMatches = entity.AddUnique(actor.CheckedMatches, targetID)
		return tx.Update(actorRef, []firestore.Update{
			{Path: "checkedMatches", Value: firestore.ArrayUnion(targetID)},
		})
	})
	if err != nil {
		return nil, storeError(err, "User", "record check")
	}
	return &result, nil
}

func (r *firestoreUserRepository) arrayUnion(ctx context.Context, userID, field, value string) error {
	_, err := r.doc(userID).Update(ctx, []firestore.Update{
		{Path: field, Value: firestore.ArrayUnion(value)},
	})
	return storeError(err, "User", "update "+field)
}

func (r *firestoreUserRepository) AddChat(ctx context.Context, userID, chatID string) error {
	return r.arrayUnion(ctx, userID, "chats", chatID)
}

func (r *firestoreUserRepository) AddCommunity(ctx context.Context, userID, communityID string) error {
	return r.arrayUnion(ctx, userID, "communities", communityID)
}

func (r *firestoreUserRepository) UpdateNotes(ctx context.Context, userID, notes string) error {
	_, err := r.doc(userID).Update(ctx, []firestore.Update{
		{Path: "notes", Value: notes},
	})
	return storeError(err, "User", "update notes")
}

func (r *firestoreUserRepository) UpdatePhoto(ctx context.Context, userID, photoURL string) error {
	_, err := r.doc(userID).Update(ctx, []firestore.Update{
		{Path: "profilePhoto", Value: photoURL},
	})
	return storeError(err, "User", "update photo")
}

func (r *firestoreUserRepository) Watch(ctx context.Context, userID string, fn func(*entity.User) error) error {
	return watchDocument(ctx, r.doc(userID), "User", func(doc *firestore.DocumentSnapshot) error {
		user, err := decodeUser(doc)
		if err != nil {
			return err
		}
		return fn(user)
	})
}
