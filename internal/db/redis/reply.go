package redis

import (
	"fmt"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/talentmatch/internal/db"
)

// parseTotal reads the match count heading every FT.SEARCH reply.
func parseTotal(raw []rueidis.RedisMessage) (int, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	n, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse total: %w", err)
	}
	return int(n), nil
}

// parseReply decodes the RESP2 shape [total, key1, [f, v, ...], key2, ...].
// Malformed pairs are skipped.
func parseReply(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	total, err := parseTotal(raw)
	if err != nil || total == 0 {
		return &db.SearchResult{}, err
	}

	entries := make([]db.SearchEntry, 0, len(raw)/2)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		pairs, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}
		entries = append(entries, db.SearchEntry{Key: key, Fields: fieldMap(pairs)})
	}
	return &db.SearchResult{Total: total, Entries: entries}, nil
}

// parseKNNReply also turns the COSINE distance in scoreField into a
// similarity, 1 - d clamped at 0, and drops the field.
func parseKNNReply(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	res, err := parseReply(raw)
	if err != nil {
		return nil, err
	}
	for i := range res.Entries {
		e := &res.Entries[i]
		d, ok := e.Fields[scoreField]
		if !ok {
			continue
		}
		delete(e.Fields, scoreField)
		if dist, err := strconv.ParseFloat(d, 64); err == nil {
			e.Score = max(0, 1-dist)
		}
	}
	return res, nil
}

func fieldMap(pairs []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(pairs)/2)
	for j := 0; j+1 < len(pairs); j += 2 {
		name, err := pairs[j].ToString()
		if err != nil {
			continue
		}
		if value, err := pairs[j+1].ToString(); err == nil {
			m[name] = value
		}
	}
	return m
}
