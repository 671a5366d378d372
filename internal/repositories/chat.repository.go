package repositories

import (
	"context"

	. "cinegenio/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*ChatSession, error)
	List(ctx context.Context, tx *gorm.DB) ([]ChatSession, error)
	Create(ctx context.Context, tx *gorm.DB, session *ChatSession) error
	Update(ctx context.Context, tx *gorm.DB, session *ChatSession) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type chatRepository struct {
	log logger.Logger
}

func NewChatRepository() ChatRepository {
	return &chatRepository{
		log: logger.New("chatRepository"),
	}
}

func (r *chatRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*ChatSession, error) {
	log := r.log.Function("GetByID")

	var session ChatSession
	if err := tx.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get chat session", err, "id", id)
	}
	return &session, nil
}

func (r *chatRepository) List(ctx context.Context, tx *gorm.DB) ([]ChatSession, error) {
	log := r.log.Function("List")

	var sessions []ChatSession
	if err := tx.WithContext(ctx).Order("created_at DESC").Find(&sessions).Error; err != nil {
		return nil, log.Err("failed to list chat sessions", err)
	}
	return sessions, nil
}

func (r *chatRepository) Create(ctx context.Context, tx *gorm.DB, session *ChatSession) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(session).Error; err != nil {
		return log.Err("failed to create chat session", err)
	}
	return nil
}

func (r *chatRepository) Update(ctx context.Context, tx *gorm.DB, session *ChatSession) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Save(session).Error; err != nil {
		return log.Err("failed to update chat session", err, "id", session.ID)
	}
	return nil
}

func (r *chatRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.Function("Delete")

	if err := tx.WithContext(ctx).Delete(&ChatSession{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete chat session", err, "id", id)
	}
	return nil
}
