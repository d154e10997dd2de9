package redis

import (
	"context"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/talentmatch/internal/db"
)

// JSONSet writes data at path. Writing "$" replaces the whole document.
func (s *Store) JSONSet(ctx context.Context, key, path string, data []byte) error {
	cmd := s.b().Arbitrary("JSON.SET").Keys(key).Args(path, string(data)).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		return &db.Error{Op: db.OpJSONSet, Err: err}
	}
	return nil
}

// JSONGet reads the given paths of a document. RedisJSON answers an empty
// string for a document that exists but has nothing at the path, which is
// reported as ErrKeyNotFound as well.
func (s *Store) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	cmd := s.b().Arbitrary("JSON.GET").Keys(key).Args(paths...).Build()
	raw, err := jsonReply(s.do(ctx, cmd))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, db.ErrKeyNotFound
	}
	return raw, nil
}

// JSONGetMany pipelines one JSON.GET per key with DoMulti. Unlike JSON.MGET
// this works when the keys hash to different cluster slots.
func (s *Store) JSONGetMany(ctx context.Context, keys []string, path string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	cmds := make(rueidis.Commands, len(keys))
	for i, k := range keys {
		cmds[i] = s.b().Arbitrary("JSON.GET").Keys(k).Args(path).Build()
	}

	out := make([][]byte, len(keys))
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		raw, err := jsonReply(res)
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

// jsonReply maps a nil or empty reply to a nil slice.
func jsonReply(res rueidis.RedisResult) ([]byte, error) {
	raw, err := res.ToString()
	switch {
	case rueidis.IsRedisNil(err):
		return nil, nil
	case err != nil:
		return nil, &db.Error{Op: db.OpJSONGet, Err: err}
	case raw == "":
		return nil, nil
	}
	return []byte(raw), nil
}
