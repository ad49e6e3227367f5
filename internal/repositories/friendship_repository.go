package repositories

import (
	"errors"

	"github.com/pokerconnect/backend/internal/models"
	"gorm.io/gorm"
)

// FriendshipRepository resolves and mutates the relationship between two
// users. Confirmed friendships are stored as symmetric FriendEdge pairs;
// proposals live in the friend_requests table.
type FriendshipRepository interface {
	Status(userID, otherID uint) (models.FriendshipStatus, error)
	AreFriends(userID, otherID uint) (bool, error)
	SendRequest(senderID, receiverID uint) (*models.FriendRequest, error)
	GetRequestByID(id uint) (*models.FriendRequest, error)
	GetPendingRequests(receiverID uint) ([]models.FriendRequest, error)
	Accept(requestID uint) (*models.FriendRequest, error)
	Decline(requestID uint) (*models.FriendRequest, error)
	Unfriend(userID, friendID uint) error
	ListFriends(userID uint) ([]models.User, error)
	DeleteAllForUser(userID uint) error
}

// PostgresFriendshipRepository implements FriendshipRepository for PostgreSQL
type PostgresFriendshipRepository struct {
	db *gorm.DB
}

// NewPostgresFriendshipRepository creates a new PostgresFriendshipRepository
func NewPostgresFriendshipRepository(db *gorm.DB) *PostgresFriendshipRepository {
	return &PostgresFriendshipRepository{db: db}
}

// AreFriends checks for a FriendEdge from userID to otherID. An existence
// check only; symmetry guarantees the reverse edge exists too.
func (r *PostgresFriendshipRepository) AreFriends(userID, otherID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.FriendEdge{}).
		Where("user_id = ? AND friend_id = ?", userID, otherID).
		Count(&count).Error
	return count > 0, err
}

// Status resolves the relationship from userID's perspective: the edge check
// first, then the pending request in each direction.
func (r *PostgresFriendshipRepository) Status(userID, otherID uint) (models.FriendshipStatus, error) {
	friends, err := r.AreFriends(userID, otherID)
	if err != nil {
		return "", err
	}
	if friends {
		return models.StatusFriends, nil
	}

	var count int64
	if err := r.db.Model(&models.FriendRequest{}).
		Where("sender_id = ? AND receiver_id = ? AND status = ?", userID, otherID, models.FriendRequestPending).
		Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return models.StatusPendingSent, nil
	}

	if err := r.db.Model(&models.FriendRequest{}).
		Where("sender_id = ? AND receiver_id = ? AND status = ?", otherID, userID, models.FriendRequestPending).
		Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return models.StatusPendingReceived, nil
	}

	return models.StatusNotFriends, nil
}

// SendRequest creates a pending friend request. Rejected when the pair is
// already friends or when a pending request exists in either direction, so
// at most one pending request per unordered pair can exist.
func (r *PostgresFriendshipRepository) SendRequest(senderID, receiverID uint) (*models.FriendRequest, error) {
	if senderID == receiverID {
		return nil, ErrSelfRequest
	}

	friends, err := r.AreFriends(senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, ErrAlreadyFriends
	}

	var count int64
	if err := r.db.Model(&models.FriendRequest{}).
		Where("((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)) AND status = ?",
			senderID, receiverID, receiverID, senderID, models.FriendRequestPending).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrRequestPending
	}

	req := &models.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.FriendRequestPending,
	}
	if err := r.db.Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

// GetRequestByID retrieves a friend request by ID
func (r *PostgresFriendshipRepository) GetRequestByID(id uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// GetPendingRequests retrieves all pending friend requests addressed to a user
func (r *PostgresFriendshipRepository) GetPendingRequests(receiverID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	if err := r.db.Where("receiver_id = ? AND status = ?", receiverID, models.FriendRequestPending).
		Order("created_at DESC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Accept transitions a pending request to accepted and creates both
// symmetric edges in one transaction: either all three writes land or none.
func (r *PostgresFriendshipRepository) Accept(requestID uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, requestID).Error; err != nil {
			return err
		}
		if req.Status != models.FriendRequestPending {
			return ErrRequestResolved
		}
		if err := tx.Model(&models.FriendRequest{}).Where("id = ?", requestID).
			Update("status", models.FriendRequestAccepted).Error; err != nil {
			return err
		}
		edges := []models.FriendEdge{
			{UserID: req.SenderID, FriendID: req.ReceiverID},
			{UserID: req.ReceiverID, FriendID: req.SenderID},
		}
		if err := tx.Create(&edges).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	req.Status = models.FriendRequestAccepted
	return &req, nil
}

// Decline transitions a pending request to declined. No edges are created.
func (r *PostgresFriendshipRepository) Decline(requestID uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, requestID).Error; err != nil {
			return err
		}
		if req.Status != models.FriendRequestPending {
			return ErrRequestResolved
		}
		return tx.Model(&models.FriendRequest{}).Where("id = ?", requestID).
			Update("status", models.FriendRequestDeclined).Error
	})
	if err != nil {
		return nil, err
	}
	req.Status = models.FriendRequestDeclined
	return &req, nil
}

// Unfriend deletes both symmetric edges in one transaction. Request history
// is untouched.
func (r *PostgresFriendshipRepository) Unfriend(userID, friendID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND friend_id = ?", userID, friendID).Delete(&models.FriendEdge{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFriends
		}
		res = tx.Where("user_id = ? AND friend_id = ?", friendID, userID).Delete(&models.FriendEdge{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Asymmetric pair would be a consistency bug; abort rather than
			// leave one half deleted.
			return errors.New("friend edge pair is asymmetric")
		}
		return nil
	})
}

// ListFriends retrieves the full profiles of all confirmed friends
func (r *PostgresFriendshipRepository) ListFriends(userID uint) ([]models.User, error) {
	var friends []models.User
	sub := r.db.Model(&models.FriendEdge{}).Select("friend_id").Where("user_id = ?", userID)
	if err := r.db.Where("id IN (?)", sub).Find(&friends).Error; err != nil {
		return nil, err
	}
	return friends, nil
}

// DeleteAllForUser removes every edge and request involving the user. Part
// of the account-deletion cascade.
func (r *PostgresFriendshipRepository) DeleteAllForUser(userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? OR friend_id = ?", userID, userID).
			Delete(&models.FriendEdge{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("sender_id = ? OR receiver_id = ?", userID, userID).
			Delete(&models.FriendRequest{}).Error
	})
}
