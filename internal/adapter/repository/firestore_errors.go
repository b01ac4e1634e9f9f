package repository

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"outdoormatch/pkg/errors"
)

const (
	usersCollection       = "users"
	communitiesCollection = "communities"
	chatsCollection       = "chats"
)

// storeError maps a Firestore error onto the application error kinds:
// NotFound for missing documents, Conflict for create-over-existing,
// Transient for everything else.
func storeError(err error, resource, action string) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*errors.AppError); ok {
		return err
	}
	switch status.Code(err) {
	case codes.NotFound:
		return errors.NotFound(resource, err)
	case codes.AlreadyExists:
		return errors.Conflict(resource + " already exists")
	default:
		return errors.Transient("Failed to "+action, err)
	}
}

func isAlreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}
