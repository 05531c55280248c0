package reader

import (
	"context"
	"strings"
	"sync"
	"time"

	"ainews-console/internal/backend"
	"ainews-console/internal/dialog"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Comment struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
	Pending   bool   `json:"pending,omitempty"`
}

type ArticleView struct {
	Article    backend.Record `json:"article"`
	Likes      int64          `json:"likes"`
	Liked      bool           `json:"liked"`
	Bookmarks  int64          `json:"bookmarks"`
	Bookmarked bool           `json:"bookmarked"`
	Comments   []Comment      `json:"comments"`
	// Pending lists interactions sent but not yet confirmed.
	Pending []string `json:"pending,omitempty"`
}

type ArticleState struct {
	Status Status       `json:"status"`
	Slug   string       `json:"slug,omitempty"`
	Error  string       `json:"error,omitempty"`
	View   *ArticleView `json:"view,omitempty"`
}

type interaction string

const (
	like     interaction = "like"
	bookmark interaction = "bookmark"
)

// ArticlePage is one reader's article screen. Likes, bookmarks and comments
// are applied locally first, marked pending, and reverted if the backend
// rejects them.
type ArticlePage struct {
	gw      Gateway
	tokens  TokenSource
	dialogs dialog.Presenter
	demo    bool
	log     *zap.Logger

	mu         sync.Mutex
	status     Status
	slug       string
	errMsg     string
	generation uint64
	rec        backend.Record
	likes      int64
	liked      bool
	bookmarks  int64
	bookmarked bool
	comments   []Comment
	pending    map[interaction]bool

	inflight sync.WaitGroup
}

// NewArticlePage builds the page; demo enables the bundled fallback article.
func NewArticlePage(gw Gateway, tokens TokenSource, dialogs dialog.Presenter, demo bool, log *zap.Logger) *ArticlePage {
	if log == nil {
		log = zap.NewNop()
	}
	return &ArticlePage{
		gw:      gw,
		tokens:  tokens,
		dialogs: dialogs,
		demo:    demo,
		log:     log.Named("article"),
		status:  StatusIdle,
		pending: make(map[interaction]bool),
	}
}

// Load fetches the article by slug. Failures end in StatusDemo when the
// fallback is enabled, otherwise in StatusError.
func (p *ArticlePage) Load(ctx context.Context, slug string) ArticleState {
	// slug outlives the request that carried it
	slug = strings.Clone(slug)
	p.mu.Lock()
	p.generation++
	gen := p.generation
	p.status = StatusLoading
	p.slug = slug
	p.errMsg = ""
	p.hydrateLocked(nil)
	p.mu.Unlock()

	token, _ := p.tokens.Token()
	rec, err := p.gw.Get(ctx, backend.JoinPath(ArticlesPath, slug), token)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.generation {
		return p.stateLocked()
	}
	switch {
	case err == nil:
		p.status = StatusLoaded
		p.hydrateLocked(rec)
	case p.demo:
		p.log.Warn("article load failed, showing demo article", zap.String("slug", slug), zap.Error(err))
		p.status = StatusDemo
		p.hydrateLocked(demoArticle(slug))
	default:
		p.log.Warn("article load failed", zap.String("slug", slug), zap.Error(err))
		p.status = StatusError
		p.errMsg = backend.Message(err)
	}
	return p.stateLocked()
}

func (p *ArticlePage) hydrateLocked(rec backend.Record) {
	p.rec = rec
	p.pending = make(map[interaction]bool)
	p.comments = nil
	if rec == nil {
		p.likes, p.liked, p.bookmarks, p.bookmarked = 0, false, 0, false
		return
	}
	p.likes = firstInt(rec, "likes", "likesCount", "stats.likes")
	p.bookmarks = firstInt(rec, "bookmarks", "bookmarksCount", "stats.bookmarks")
	p.liked = rec.Get("isLiked").Bool()
	p.bookmarked = rec.Get("isBookmarked").Bool()
	for _, c := range rec.Get("comments").Array() {
		p.comments = append(p.comments, commentFrom(backend.Record(c.Raw)))
	}
}

func firstInt(rec backend.Record, paths ...string) int64 {
	for _, path := range paths {
		if v := rec.Get(path); v.Exists() {
			if v.IsArray() {
				return int64(len(v.Array()))
			}
			return v.Int()
		}
	}
	return 0
}

func commentFrom(rec backend.Record) Comment {
	author := rec.Get("author.name").String()
	if author == "" {
		author = rec.Get("user.name").String()
	}
	if author == "" {
		author = rec.Get("author").String()
	}
	return Comment{
		ID:        rec.ID(),
		Author:    author,
		Content:   rec.Get("content").String(),
		CreatedAt: rec.Get("createdAt").String(),
	}
}

// State snapshots the page.
func (p *ArticlePage) State() ArticleState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stateLocked()
}

func (p *ArticlePage) stateLocked() ArticleState {
	st := ArticleState{Status: p.status, Slug: p.slug, Error: p.errMsg}
	if p.rec == nil {
		return st
	}
	v := &ArticleView{
		Article:    p.rec,
		Likes:      p.likes,
		Liked:      p.liked,
		Bookmarks:  p.bookmarks,
		Bookmarked: p.bookmarked,
		Comments:   append([]Comment{}, p.comments...),
	}
	for _, k := range []interaction{like, bookmark} {
		if p.pending[k] {
			v.Pending = append(v.Pending, string(k))
		}
	}
	st.View = v
	return st
}

// Slug is the slug of the last Load.
func (p *ArticlePage) Slug() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.slug
}

func (p *ArticlePage) requireToken(action string) (string, error) {
	token, ok := p.tokens.Token()
	if !ok {
		p.dialogs.Show(dialog.Info("Sign in required", "Please sign in to "+action+"."))
		return "", ErrSignInRequired
	}
	return token, nil
}

func (p *ArticlePage) ToggleLike(ctx context.Context) error {
	return p.toggle(ctx, like, "like articles")
}

func (p *ArticlePage) ToggleBookmark(ctx context.Context) error {
	return p.toggle(ctx, bookmark, "bookmark articles")
}

func (p *ArticlePage) toggle(ctx context.Context, kind interaction, action string) error {
	token, err := p.requireToken(action)
	if err != nil {
		return err
	}

	p.mu.Lock()
	if p.status != StatusLoaded && p.status != StatusDemo {
		p.mu.Unlock()
		return ErrNotLoaded
	}
	if p.pending[kind] {
		p.mu.Unlock()
		return ErrInteractionPending
	}
	on := p.flipLocked(kind)
	p.pending[kind] = true
	gen, id, demo := p.generation, p.rec.ID(), p.status == StatusDemo
	p.mu.Unlock()

	// the demo article does not exist on the backend; keep the change locally
	if demo {
		p.finishToggle(gen, kind, nil)
		return nil
	}

	body := map[string]bool{"liked": on}
	if kind == bookmark {
		body = map[string]bool{"bookmarked": on}
	}
	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		_, err := p.gw.Post(context.WithoutCancel(ctx), backend.JoinPath(InteractPath, id, string(kind)), body, token)
		p.finishToggle(gen, kind, err)
	}()
	return nil
}

// flipLocked toggles kind and returns the new value.
func (p *ArticlePage) flipLocked(kind interaction) bool {
	step := func(on bool, n *int64) {
		if on {
			*n++
		} else if *n > 0 {
			*n--
		}
	}
	if kind == like {
		p.liked = !p.liked
		step(p.liked, &p.likes)
		return p.liked
	}
	p.bookmarked = !p.bookmarked
	step(p.bookmarked, &p.bookmarks)
	return p.bookmarked
}

// finishToggle commits or reverts. Results for an article that has since
// been replaced by another Load are ignored.
func (p *ArticlePage) finishToggle(gen uint64, kind interaction, err error) {
	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		return
	}
	delete(p.pending, kind)
	if err != nil {
		p.flipLocked(kind)
	}
	p.mu.Unlock()

	if err != nil {
		p.log.Warn("interaction reverted", zap.String("kind", string(kind)), zap.Error(err))
		p.dialogs.Show(dialog.Error("Could not save your "+string(kind), backend.Message(err)))
	}
}

// AddComment appends the comment as pending and posts it. The comment is
// dropped again if the backend rejects it.
func (p *ArticlePage) AddComment(ctx context.Context, content string) (Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		p.dialogs.Show(dialog.Warning("Empty comment", "Write something before posting."))
		return Comment{}, ErrEmptyComment
	}
	token, err := p.requireToken("comment")
	if err != nil {
		return Comment{}, err
	}

	p.mu.Lock()
	if p.status != StatusLoaded && p.status != StatusDemo {
		p.mu.Unlock()
		return Comment{}, ErrNotLoaded
	}
	c := Comment{
		ID:        "pending-" + uuid.NewString(),
		Author:    "You",
		Content:   content,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Pending:   true,
	}
	p.comments = append(p.comments, c)
	gen, id, demo := p.generation, p.rec.ID(), p.status == StatusDemo
	p.mu.Unlock()

	if demo {
		p.finishComment(gen, c.ID, nil, nil)
		return c, nil
	}

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		rec, err := p.gw.Post(context.WithoutCancel(ctx), backend.JoinPath(InteractPath, id, "comments"), map[string]string{"content": content}, token)
		p.finishComment(gen, c.ID, rec, err)
	}()
	return c, nil
}

func (p *ArticlePage) finishComment(gen uint64, tempID string, rec backend.Record, err error) {
	p.mu.Lock()
	if gen != p.generation {
		p.mu.Unlock()
		return
	}
	for i, c := range p.comments {
		if c.ID != tempID {
			continue
		}
		if err != nil {
			p.comments = append(p.comments[:i:i], p.comments[i+1:]...)
			break
		}
		c.Pending = false
		if rec != nil {
			saved := commentFrom(rec)
			if saved.ID != "" {
				c.ID = saved.ID
			}
			if saved.CreatedAt != "" {
				c.CreatedAt = saved.CreatedAt
			}
		}
		p.comments[i] = c
		break
	}
	p.mu.Unlock()

	if err != nil {
		p.log.Warn("comment rejected", zap.Error(err))
		p.dialogs.Show(dialog.Error("Could not post your comment", backend.Message(err)))
	}
}

// Settle waits for every interaction in flight to commit or revert.
func (p *ArticlePage) Settle() {
	p.inflight.Wait()
}
