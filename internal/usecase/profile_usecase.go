package usecase

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"

	"outdoormatch/internal/domain/entity"
	"outdoormatch/internal/domain/repository"
	"outdoormatch/pkg/errors"
)

const MaxPhotoBytes = 5 << 20

var allowedPhotoTypes = []string{"image/jpeg", "image/png", "image/gif"}

type ProfileUseCase struct {
	userRepo repository.UserRepository
	images   repository.ImageStore
	now      func() time.Time
}

func NewProfileUseCase(userRepo repository.UserRepository, images repository.ImageStore) *ProfileUseCase {
	return &ProfileUseCase{
		userRepo: userRepo,
		images:   images,
		now:      time.Now,
	}
}

type CreateProfileInput struct {
	Name      string
	Email     string
	Bio       string
	Interests []string
}

// CreateProfile writes the signup record for uid.
func (uc *ProfileUseCase) CreateProfile(ctx context.Context, uid string, input CreateProfileInput) (*entity.User, error) {
	if uid == "" {
		return nil, errors.Unauthorized("Authentication required", nil)
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, errors.Validation("Name is required")
	}

	user := entity.NewUser(uid, name, strings.TrimSpace(input.Email), uc.now().UTC())
	user.Bio = strings.TrimSpace(input.Bio)
	user.Interests = normalizeInterests(input.Interests)

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func normalizeInterests(in []string) []string {
	out := []string{}
	for _, tag := range in {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		out = entity.AddUnique(out, tag)
	}
	return out
}

func (uc *ProfileUseCase) GetProfile(ctx context.Context, uid string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, uid)
}

// UpdateNotes sets the short note shown next to the user on discover lists.
func (uc *ProfileUseCase) UpdateNotes(ctx context.Context, uid, notes string) (*entity.User, error) {
	notes = strings.TrimSpace(notes)
	if utf8.RuneCountInString(notes) > entity.MaxNotesLength {
		return nil, errors.Validation(fmt.Sprintf("Notes must be at most %d characters", entity.MaxNotesLength))
	}

	if err := uc.userRepo.UpdateNotes(ctx, uid, notes); err != nil {
		return nil, err
	}
	return uc.userRepo.GetByID(ctx, uid)
}

func (uc *ProfileUseCase) UploadPhoto(ctx context.Context, uid string, data []byte) (*entity.User, error) {
	if len(data) == 0 {
		return nil, errors.Validation("Photo is required")
	}
	if len(data) > MaxPhotoBytes {
		return nil, errors.Validation(fmt.Sprintf("Photo must be at most %d MiB", MaxPhotoBytes>>20))
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedPhotoTypes...) {
		return nil, errors.Validation(fmt.Sprintf("Unsupported image type %s", mtype.String()))
	}

	user, err := uc.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("profile_images/profile_%s_%d", uid, uc.now().Unix())
	url, err := uc.images.Upload(ctx, bytes.NewReader(data), mtype.String(), path)
	if err != nil {
		return nil, errors.Transient("Failed to upload photo", err)
	}

	if err := uc.userRepo.UpdatePhoto(ctx, uid, url); err != nil {
		return nil, err
	}

	user.PhotoURL = url
	return user, nil
}
