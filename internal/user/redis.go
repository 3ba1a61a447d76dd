package user

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"

	appErr "github.com/mashrafi141/my-judge-webapp2/pkg/errors"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "codejudge"

// applyVerdictScript performs the whole read-check-update of one judged
// submission server-side, so concurrent submissions by the same user cannot
// interleave between the membership check and the counter updates.
//
// KEYS: 1=user hash, 2=submissions list, 3=accepted set, 4=wrong set, 5=user index
// ARGV: 1=problem id, 2=points, 3=accepted flag, 4=submission json, 5=user id
var applyVerdictScript = redis.NewScript(`
redis.call('SADD', KEYS[5], ARGV[5])
redis.call('HINCRBY', KEYS[1], 'submission_count', 1)
redis.call('RPUSH', KEYS[2], ARGV[4])
if ARGV[3] == '1' then
    if redis.call('SISMEMBER', KEYS[3], ARGV[1]) == 0 then
        redis.call('HINCRBY', KEYS[1], 'rating', ARGV[2])
        redis.call('HINCRBY', KEYS[1], 'total_points', ARGV[2])
        redis.call('SADD', KEYS[3], ARGV[1])
        redis.call('SREM', KEYS[4], ARGV[1])
    end
else
    if redis.call('SISMEMBER', KEYS[3], ARGV[1]) == 0 and redis.call('SISMEMBER', KEYS[4], ARGV[1]) == 0 then
        redis.call('SADD', KEYS[4], ARGV[1])
    end
end
return 1
`)

// RedisStore is the production Store, keyed per user:
//
//	<prefix>:users                    set of user ids
//	<prefix>:user:<id>                hash of counters and profile fields
//	<prefix>:user:<id>:submissions    list of submission json
//	<prefix>:user:<id>:accepted       set of accepted problem ids
//	<prefix>:user:<id>:wrong          set of wrong problem ids
//	<prefix>:username:<name>          username ownership marker
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store on an existing client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) indexKey() string          { return s.prefix + ":users" }
func (s *RedisStore) userKey(id string) string  { return s.prefix + ":user:" + id }
func (s *RedisStore) subsKey(id string) string  { return s.userKey(id) + ":submissions" }
func (s *RedisStore) acKey(id string) string    { return s.userKey(id) + ":accepted" }
func (s *RedisStore) wrongKey(id string) string { return s.userKey(id) + ":wrong" }
func (s *RedisStore) nameKey(n string) string   { return s.prefix + ":username:" + n }

// Register claims the username and fills in the profile fields. The
// AlreadyRegistered check runs before the name claim so a rejected retry
// never leaves an orphaned ownership marker behind.
func (s *RedisStore) Register(ctx context.Context, id, username, gmail string) error {
	existing, err := s.client.HGet(ctx, s.userKey(id), "username").Result()
	if err != nil && err != redis.Nil {
		return appErr.Wrap(err, appErr.StorageError)
	}
	if existing != "" {
		return appErr.New(appErr.AlreadyRegistered)
	}

	claimed, err := s.client.SetNX(ctx, s.nameKey(username), id, 0).Result()
	if err != nil {
		return appErr.Wrap(err, appErr.StorageError)
	}
	if !claimed {
		owner, _ := s.client.Get(ctx, s.nameKey(username)).Result()
		if owner != id {
			return appErr.New(appErr.UsernameExists)
		}
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.userKey(id), map[string]interface{}{
		"username":      username,
		"gmail":         gmail,
		"registered_at": Now(),
	})
	pipe.SAdd(ctx, s.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return appErr.Wrap(err, appErr.StorageError)
	}
	return nil
}

// IsRegistered reports whether the user has a username and gmail on record.
func (s *RedisStore) IsRegistered(ctx context.Context, id string) (bool, error) {
	fields, err := s.client.HMGet(ctx, s.userKey(id), "username", "gmail").Result()
	if err != nil {
		return false, appErr.Wrap(err, appErr.StorageError)
	}
	return fields[0] != nil && fields[1] != nil, nil
}

// EnsureUser adds the id to the user index; counters default to zero.
func (s *RedisStore) EnsureUser(ctx context.Context, id string) error {
	if err := s.client.SAdd(ctx, s.indexKey(), id).Err(); err != nil {
		return appErr.Wrap(err, appErr.StorageError)
	}
	return nil
}

// Get assembles the user's record from its keys.
func (s *RedisStore) Get(ctx context.Context, id string) (*Record, error) {
	known, err := s.client.SIsMember(ctx, s.indexKey(), id).Result()
	if err != nil {
		return nil, appErr.Wrap(err, appErr.StorageError)
	}
	if !known {
		return nil, appErr.Newf(appErr.RecordNotFound, "user %s not found", id)
	}

	fields, err := s.client.HGetAll(ctx, s.userKey(id)).Result()
	if err != nil {
		return nil, appErr.Wrap(err, appErr.StorageError)
	}
	rawSubs, err := s.client.LRange(ctx, s.subsKey(id), 0, -1).Result()
	if err != nil {
		return nil, appErr.Wrap(err, appErr.StorageError)
	}
	accepted, err := s.intSet(ctx, s.acKey(id))
	if err != nil {
		return nil, err
	}
	wrong, err := s.intSet(ctx, s.wrongKey(id))
	if err != nil {
		return nil, err
	}

	rec := &Record{
		ID:              id,
		Username:        fields["username"],
		Gmail:           fields["gmail"],
		RegisteredAt:    fields["registered_at"],
		Rating:          atoi(fields["rating"]),
		TotalPoints:     atoi(fields["total_points"]),
		SubmissionCount: atoi(fields["submission_count"]),
		Submissions:     make([]SubmissionRecord, 0, len(rawSubs)),
		Accepted:        accepted,
		Wrong:           wrong,
	}
	for _, raw := range rawSubs {
		var sub SubmissionRecord
		if err := json.Unmarshal([]byte(raw), &sub); err != nil {
			continue
		}
		rec.Submissions = append(rec.Submissions, sub)
	}
	return rec, nil
}

// List returns every known user's record.
func (s *RedisStore) List(ctx context.Context) ([]*Record, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, appErr.Wrap(err, appErr.StorageError)
	}
	out := make([]*Record, 0, len(ids))
	for _, id := range ids {
		rec, err := s.Get(ctx, id)
		if err != nil {
			if appErr.Is(err, appErr.RecordNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// ApplyVerdict runs the atomic verdict script for the user.
func (s *RedisStore) ApplyVerdict(ctx context.Context, id string, upd VerdictUpdate) error {
	subJSON, err := json.Marshal(upd.Submission)
	if err != nil {
		return appErr.Wrap(err, appErr.RatingUpdateFailed)
	}
	acceptedFlag := "0"
	if upd.Accepted {
		acceptedFlag = "1"
	}
	keys := []string{s.userKey(id), s.subsKey(id), s.acKey(id), s.wrongKey(id), s.indexKey()}
	argv := []interface{}{strconv.Itoa(upd.ProblemID), strconv.Itoa(upd.Points), acceptedFlag, string(subJSON), id}
	if err := applyVerdictScript.Run(ctx, s.client, keys, argv...).Err(); err != nil {
		return appErr.Wrap(err, appErr.RatingUpdateFailed)
	}
	return nil
}

func (s *RedisStore) intSet(ctx context.Context, key string) ([]int, error) {
	members, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, appErr.Wrap(err, appErr.StorageError)
	}
	out := make([]int, 0, len(members))
	for _, m := range members {
		if n, err := strconv.Atoi(m); err == nil {
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
