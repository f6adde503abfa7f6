package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/deppfellow/memwarzz/internal/errs"
	"github.com/deppfellow/memwarzz/internal/metrics"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type EngagementService struct {
	engagement       EngagementStore
	commentMaxLength int
}

func NewEngagementService(engagement EngagementStore, commentMaxLength int) *EngagementService {
	return &EngagementService{engagement: engagement, commentMaxLength: commentMaxLength}
}

func postNotFound(postType model.PostType) error {
	if postType == model.PostTypeBattle {
		return errs.NewNotFoundError("Meme Battle not found", true, nil)
	}
	return errs.NewNotFoundError("Meme not found", true, nil)
}

func (s *EngagementService) requirePost(ctx context.Context, postType model.PostType, postID uuid.UUID) error {
	exists, err := s.engagement.PostExists(ctx, postType, postID)
	if err != nil {
		return err
	}
	if !exists {
		return postNotFound(postType)
	}
	return nil
}

// ToggleLike flips userID's like on the post and returns the resulting
// state with the fresh count.
func (s *EngagementService) ToggleLike(ctx context.Context, userID uuid.UUID, postType model.PostType, postID uuid.UUID) (*model.LikeState, error) {
	state, err := s.engagement.ToggleLike(ctx, userID, postType, postID)
	if err != nil {
		return nil, err
	}

	if state.Liked {
		metrics.RecordEvent(metrics.EventLikeAdded)
	} else {
		metrics.RecordEvent(metrics.EventLikeRemoved)
	}
	return &state, nil
}

func (s *EngagementService) LikesCount(ctx context.Context, postType model.PostType, postID uuid.UUID) (*model.LikesCountResponse, error) {
	if err := s.requirePost(ctx, postType, postID); err != nil {
		return nil, err
	}

	count, err := s.engagement.LikesCount(ctx, postType, postID)
	if err != nil {
		return nil, err
	}
	return &model.LikesCountResponse{LikesCount: count}, nil
}

// AddComment adds a comment, or a reply when parentID is set. A reply must
// point at a comment on the same post.
func (s *EngagementService) AddComment(
	ctx context.Context,
	userID uuid.UUID,
	postType model.PostType,
	postID uuid.UUID,
	content string,
	parentID *uuid.UUID,
) (*model.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errs.NewBadRequestError("Comment content cannot be empty.", true, nil,
			[]errs.FieldError{{Field: "content", Error: "is required"}}, nil)
	}
	if utf8.RuneCountInString(content) > s.commentMaxLength {
		msg := fmt.Sprintf("Comment cannot exceed %d characters.", s.commentMaxLength)
		return nil, errs.NewBadRequestError(msg, true, nil, []errs.FieldError{{Field: "content", Error: msg}}, nil)
	}

	if err := s.requirePost(ctx, postType, postID); err != nil {
		return nil, err
	}

	if parentID != nil {
		parent, err := s.engagement.GetComment(ctx, *parentID)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.NewBadRequestError("Parent comment not found.", true, nil,
				[]errs.FieldError{{Field: "parent_comment_id", Error: "does not exist"}}, nil)
		}
		if err != nil {
			return nil, err
		}
		if parent.PostType() != postType || parent.PostID() != postID {
			return nil, errs.NewBadRequestError("The parent comment belongs to another post.", true, nil,
				[]errs.FieldError{{Field: "parent_comment_id", Error: "must belong to the same post"}}, nil)
		}
	}

	comment := &model.Comment{
		UserID:          userID,
		ParentCommentID: parentID,
		Content:         content,
	}
	if postType == model.PostTypeBattle {
		comment.BattleID = &postID
	} else {
		comment.MemeID = &postID
	}

	created, err := s.engagement.AddComment(ctx, comment)
	if err != nil {
		return nil, err
	}
	metrics.RecordEvent(metrics.EventCommentAdded)
	return created, nil
}

// ListComments returns the post's comments oldest first.
func (s *EngagementService) ListComments(ctx context.Context, postType model.PostType, postID uuid.UUID) ([]model.Comment, error) {
	if err := s.requirePost(ctx, postType, postID); err != nil {
		return nil, err
	}
	return s.engagement.ListComments(ctx, postType, postID)
}
