package repository

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"outdoormatch/internal/domain/entity"
	"outdoormatch/internal/domain/repository"
	"outdoormatch/pkg/errors"
	"outdoormatch/pkg/logger"
)

type firestoreCommunityRepository struct {
	client *firestore.Client
}

func NewFirestoreCommunityRepository(client *firestore.Client) repository.CommunityRepository {
	return &firestoreCommunityRepository{
		client: client,
	}
}

func (r *firestoreCommunityRepository) collection() *firestore.CollectionRef {
	return r.client.Collection(communitiesCollection)
}

func decodeCommunity(doc *firestore.DocumentSnapshot) (*entity.Community, error) {
	var community entity.Community
	if err := doc.DataTo(&community); err != nil {
		return nil, errors.Internal("Failed to parse community data", err)
	}
	community.ID = doc.Ref.ID
	return &community, nil
}

func (r *firestoreCommunityRepository) Create(ctx context.Context, community *entity.Community) error {
	var ref *firestore.DocumentRef
	if community.ID == "" {
		ref = r.collection().NewDoc()
		community.ID = ref.ID
	} else {
		ref = r.collection().Doc(community.ID)
	}

	if community.Members == nil {
		community.Members = []string{}
	}
	if community.ActiveMembers == nil {
		community.ActiveMembers = map[string][]string{}
	}

	_, err := ref.Create(ctx, community)
	return storeError(err, "Community", "create community")
}

func (r *firestoreCommunityRepository) GetByID(ctx context.Context, id string) (*entity.Community, error) {
	doc, err := r.collection().Doc(id).Get(ctx)
	if err != nil {
		return nil, storeError(err, "Community", "get community")
	}
	return decodeCommunity(doc)
}

func (r *firestoreCommunityRepository) GetByIDs(ctx context.Context, ids []string) ([]*entity.Community, error) {
	if len(ids) == 0 {
		return []*entity.Community{}, nil
	}

	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, r.collection().Doc(id))
	}

	docs, err := r.client.GetAll(ctx, refs)
	if err != nil {
		return nil, storeError(err, "Community", "get communities")
	}

	communities := make([]*entity.Community, 0, len(docs))
	for _, doc := range docs {
		if !doc.Exists() {
			continue
		}
		community, err := decodeCommunity(doc)
		if err != nil {
			logger.Warn("GetByIDs: skipping unreadable community %s: %v", doc.Ref.ID, err)
			continue
		}
		communities = append(communities, community)
	}
	return communities, nil
}

func (r *firestoreCommunityRepository) List(ctx context.Context) ([]*entity.Community, error) {
	iter := r.collection().Documents(ctx)
	defer iter.Stop()

	var communities []*entity.Community
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, storeError(err, "Community", "list communities")
		}

		community, err := decodeCommunity(doc)
		if err != nil {
			logger.Warn("List: skipping unreadable community %s: %v", doc.Ref.ID, err)
			continue
		}
		communities = append(communities, community)
	}

	sort.Slice(communities, func(i, j int) bool {
		return communities[i].Name < communities[j].Name
	})
	return communities, nil
}

func (r *firestoreCommunityRepository) AddMember(ctx context.Context, communityID, userID string) error {
	_, err := r.collection().Doc(communityID).Update(ctx, []firestore.Update{
		{Path: "members", Value: firestore.ArrayUnion(userID)},
	})
	return storeError(err, "Community", "join community")
}

// dayPath addresses activeMembers.<day> without string-splitting the path.
func dayPath(day int) firestore.FieldPath {
	return firestore.FieldPath{"activeMembers", entity.DayKey(day)}
}

func (r *firestoreCommunityRepository) AddActiveMember(ctx context.Context, communityID string, day int, userID string) error {
	_, err := r.collection().Doc(communityID).Update(ctx, []firestore.Update{
		{FieldPath: dayPath(day), Value: firestore.ArrayUnion(userID)},
	})
	return storeError(err, "Community", "update availability")
}

func (r *firestoreCommunityRepository) RemoveActiveMember(ctx context.Context, communityID string, day int, userID string) error {
	_, err := r.collection().Doc(communityID).Update(ctx, []firestore.Update{
		{FieldPath: dayPath(day), Value: firestore.ArrayRemove(userID)},
	})
	return storeError(err, "Community", "update availability")
}
