package parsers

import (
	"cmp"
	"fmt"
	"slices"
	"sync"
	"time"

	"lifestats/internal/aggregate"
	"lifestats/internal/loaders"
	"lifestats/internal/models"
	"lifestats/internal/providers"
	"lifestats/internal/structures"
)

type connectionSets struct {
	followers []models.Connection
	following []models.Connection
}

// ConnectionsParser reads an instagram connections.json export.
type ConnectionsParser struct {
	base
	loader      loaders.DecoderInterface
	connections func() (connectionSets, error)
}

func NewConnectionsParser(loader loaders.DecoderInterface, filter structures.Filter, normalizer *models.Normalizer, logger providers.Logger) *ConnectionsParser {
	p := &ConnectionsParser{base: newBase(filter, normalizer, logger), loader: loader}
	p.connections = sync.OnceValues(p.buildConnections)
	return p
}

func (p *ConnectionsParser) buildConnections() (connectionSets, error) {
	var raw models.RawConnections
	if err := p.loader.Decode(&raw); err != nil {
		return connectionSets{}, err
	}

	followers, err := p.toConnections("followers", raw.Followers)
	if err != nil {
		return connectionSets{}, err
	}
	following, err := p.toConnections("following", raw.Following)
	if err != nil {
		return connectionSets{}, err
	}
	p.debugf("Loaded %d followers and %d following from %s", len(followers), len(following), p.loader.Path())
	return connectionSets{followers: followers, following: following}, nil
}

// toConnections orders the edges by (date, name) since the export is an unordered map.
func (p *ConnectionsParser) toConnections(kind string, edges map[string]string) ([]models.Connection, error) {
	out := make([]models.Connection, 0, len(edges))
	for name, timestamp := range edges {
		c, err := models.NewConnection(name, timestamp, p.normalizer)
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", kind, name, err)
		}
		if p.inYear(c.Date) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b models.Connection) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (p *ConnectionsParser) Followers() ([]models.Connection, error) {
	sets, err := p.connections()
	return sets.followers, err
}

func (p *ConnectionsParser) Following() ([]models.Connection, error) {
	sets, err := p.connections()
	return sets.following, err
}

func (p *ConnectionsParser) Count() (int, error) {
	sets, err := p.connections()
	return len(sets.followers) + len(sets.following), err
}

func (p *ConnectionsParser) FollowersByMonth() ([aggregate.MonthsInYear][]models.Connection, error) {
	followers, err := p.Followers()
	if err != nil {
		return [aggregate.MonthsInYear][]models.Connection{}, err
	}
	return aggregate.ByMonth(followers, connectionDate), nil
}

func (p *ConnectionsParser) FollowingByMonth() ([aggregate.MonthsInYear][]models.Connection, error) {
	following, err := p.Following()
	if err != nil {
		return [aggregate.MonthsInYear][]models.Connection{}, err
	}
	return aggregate.ByMonth(following, connectionDate), nil
}

func connectionDate(c models.Connection) time.Time { return c.Date }

// LikesParser reads an instagram likes.json export.
type LikesParser struct {
	base
	loader loaders.DecoderInterface
	likes  func() ([]models.Like, error)
}

func NewLikesParser(loader loaders.DecoderInterface, filter structures.Filter, normalizer *models.Normalizer, logger providers.Logger) *LikesParser {
	p := &LikesParser{base: newBase(filter, normalizer, logger), loader: loader}
	p.likes = sync.OnceValues(p.buildLikes)
	return p
}

func (p *LikesParser) buildLikes() ([]models.Like, error) {
	var raw models.RawLikes
	if err := p.loader.Decode(&raw); err != nil {
		return nil, err
	}

	likes := make([]models.Like, 0, len(raw.MediaLikes))
	for i, pair := range raw.MediaLikes {
		like, err := models.NewLike(pair, p.normalizer)
		if err != nil {
			return nil, fmt.Errorf("media like #%d: %w", i, err)
		}
		if p.inYear(like.Date) {
			likes = append(likes, like)
		}
	}
	p.debugf("Loaded %d media likes (%d kept) from %s", len(raw.MediaLikes), len(likes), p.loader.Path())
	return likes, nil
}

func (p *LikesParser) Likes() ([]models.Like, error) {
	return p.likes()
}

func (p *LikesParser) Count() (int, error) {
	likes, err := p.likes()
	return len(likes), err
}

func (p *LikesParser) LikesByMonth() ([aggregate.MonthsInYear][]models.Like, error) {
	likes, err := p.likes()
	if err != nil {
		return [aggregate.MonthsInYear][]models.Like{}, err
	}
	return aggregate.ByMonth(likes, func(l models.Like) time.Time { return l.Date }), nil
}
