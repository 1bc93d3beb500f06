package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/cryptown/internal/common"
	"github.com/dmitrijs2005/cryptown/internal/dbx"
	"github.com/dmitrijs2005/cryptown/internal/logging"
	"github.com/dmitrijs2005/cryptown/internal/server/models"
	"github.com/dmitrijs2005/cryptown/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// PostService manages forum posts and their one level of replies.
type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *PostService {
	return &PostService{db: db, repomanager: m, log: log}
}

// snapshot makes both bulk reads see the same committed state, so a reply
// never shows up without its parent.
var snapshot = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// GetPosts returns every post keyed by id, each with its replies in
// retrieval order. userID is only logged.
func (s *PostService) GetPosts(ctx context.Context, userID string) (models.PostTree, error) {
	var (
		posts   []models.Post
		replies []models.SubPost
	)

	err := dbx.WithTx(ctx, s.db, snapshot, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if posts, err = s.repomanager.Posts(tx).List(ctx); err != nil {
			return err
		}
		replies, err = s.repomanager.SubPosts(tx).List(ctx)
		return err
	})
	if err != nil {
		return nil, storeErr(err)
	}

	tree, err := buildTree(posts, replies)
	if err != nil {
		s.log.Error(ctx, "post tree is inconsistent", "user_id", userID, "error", err)
		return nil, err
	}

	s.log.Debug(ctx, "posts fetched", "user_id", userID, "posts", len(posts), "replies", len(replies))
	return tree, nil
}

func buildTree(posts []models.Post, replies []models.SubPost) (models.PostTree, error) {
	tree := make(models.PostTree, len(posts))
	for _, p := range posts {
		tree[p.ID] = &models.PostNode{Post: p, Replies: []models.SubPost{}}
	}

	for _, r := range replies {
		node, ok := tree[r.PostID]
		if !ok {
			return nil, fmt.Errorf("%w: reply %s references missing post %s", common.ErrorIntegrity, r.ID, r.PostID)
		}
		node.Replies = append(node.Replies, r)
	}

	return tree, nil
}

func validateContent(userID, body string, datetime time.Time) error {
	if userID == "" {
		return fmt.Errorf("%w: user id is required", common.ErrorValidation)
	}
	if body == "" {
		return fmt.Errorf("%w: post body is required", common.ErrorValidation)
	}
	if datetime.IsZero() {
		return fmt.Errorf("%w: datetime is required", common.ErrorValidation)
	}
	return nil
}

// AddPost stores a new top-level post.
func (s *PostService) AddPost(ctx context.Context, userID, body string, datetime time.Time) (*models.Post, error) {
	if err := validateContent(userID, body, datetime); err != nil {
		return nil, err
	}

	post := &models.Post{
		ID:       uuid.NewString(),
		UserID:   userID,
		Body:     body,
		DateTime: datetime,
	}
	if err := s.repomanager.Posts(s.db).Create(ctx, post); err != nil {
		return nil, storeErr(err)
	}

	s.log.Info(ctx, "post added", "user_id", userID, "post_id", post.ID)
	return post, nil
}

// AddSubPost stores a reply to postID. The parent check and the insert run
// in one transaction.
func (s *PostService) AddSubPost(ctx context.Context, userID, postID, body string, datetime time.Time) (*models.SubPost, error) {
	if err := validateContent(userID, body, datetime); err != nil {
		return nil, err
	}
	if postID == "" {
		return nil, fmt.Errorf("%w: post id is required", common.ErrorValidation)
	}

	sp := &models.SubPost{
		ID:       uuid.NewString(),
		PostID:   postID,
		UserID:   userID,
		Body:     body,
		DateTime: datetime,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		exists, err := s.repomanager.Posts(tx).Exists(ctx, postID)
		if err != nil {
			return err
		}
		if !exists {
			return common.ErrorNotFound
		}
		return s.repomanager.SubPosts(tx).Create(ctx, sp)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: post %s does not exist", common.ErrorNotFound, postID)
		}
		return nil, storeErr(err)
	}

	s.log.Info(ctx, "reply added", "user_id", userID, "post_id", postID, "subpost_id", sp.ID)
	return sp, nil
}
