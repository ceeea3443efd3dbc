package models

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type MessagesRepository struct {
	db *gorm.DB
}

func NewMessagesRepository(db *gorm.DB) *MessagesRepository {
	return &MessagesRepository{db: db}
}

func (r *MessagesRepository) CreateMessage(ctx context.Context, msg *Message) error {
	if msg.Status == "" {
		msg.Status = MessageNew
	}
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListMessages returns messages newest first. An empty status lists everything not deleted.
func (r *MessagesRepository) ListMessages(ctx context.Context, offset, limit int, status MessageStatus) ([]Message, int64, error) {
	var messages []Message
	var total int64

	query := r.db.WithContext(ctx).Model(&Message{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&messages).Error; err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (r *MessagesRepository) GetMessage(ctx context.Context, id uint) (*Message, error) {
	var msg Message
	if err := r.db.WithContext(ctx).First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

func (r *MessagesRepository) UpdateMessageStatus(ctx context.Context, id uint, status MessageStatus) error {
	res := r.db.WithContext(ctx).Model(&Message{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (r *MessagesRepository) DeleteMessage(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&Message{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}
