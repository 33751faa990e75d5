package freecodecamp

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jinzhu/copier"
	"github.com/travigo/relay/pkg/apperror"
	"github.com/travigo/relay/pkg/util"
)

const exerciseDateLayout = "Mon Jan 02 2006"

type User struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

type LogEntry struct {
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Date        string  `json:"date"`
}

type ExerciseLog struct {
	ID       string     `json:"_id"`
	Username string     `json:"username"`
	Count    int        `json:"count"`
	Log      []LogEntry `json:"log"`
}

type ExerciseResult struct {
	ID          string  `json:"_id"`
	Username    string  `json:"username"`
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Date        string  `json:"date"`
}

type LogFilter struct {
	From  string
	To    string
	Limit string
}

// Tracker is the in-memory exercise store. Users are keyed by the sha256 of their name
type Tracker struct {
	mutex sync.RWMutex
	now   func() time.Time

	order []string
	users map[string]*User
	logs  map[string]*ExerciseLog
}

func NewTracker() *Tracker {
	return &Tracker{
		now:   time.Now,
		users: map[string]*User{},
		logs:  map[string]*ExerciseLog{},
	}
}

func (t *Tracker) Users() []User {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	users := make([]User, 0, len(t.order))
	for _, id := range t.order {
		users = append(users, *t.users[id])
	}

	return users
}

// AddUser returns the existing user when the name is already registered
func (t *Tracker) AddUser(username string) (User, error) {
	if strings.TrimSpace(username) == "" {
		return User{}, apperror.BadRequest("Username is required")
	}

	sum := sha256.Sum256([]byte(username))
	id := hex.EncodeToString(sum[:])

	t.mutex.Lock()
	defer t.mutex.Unlock()

	if existing, ok := t.users[id]; ok {
		return *existing, nil
	}

	t.users[id] = &User{ID: id, Username: username}
	t.logs[id] = &ExerciseLog{ID: id, Username: username, Log: []LogEntry{}}
	t.order = append(t.order, id)

	return *t.users[id], nil
}

func (t *Tracker) AddExercise(userID string, description string, duration string, date string) (*ExerciseResult, error) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	user, ok := t.users[userID]
	if !ok {
		return nil, apperror.NotFound("User not found")
	}

	if description == "" || duration == "" {
		return nil, apperror.BadRequest("Description and duration are required")
	}

	minutes, err := strconv.ParseFloat(duration, 64)
	if err != nil {
		return nil, apperror.BadRequest("Duration must be a number")
	}

	day := t.now()
	if date != "" {
		day, err = ParseDate(date)
		if err != nil {
			return nil, apperror.BadRequest("Invalid date")
		}
	}

	entry := LogEntry{
		Description: description,
		Duration:    minutes,
		Date:        day.Format(exerciseDateLayout),
	}

	exerciseLog := t.logs[userID]
	exerciseLog.Log = append(exerciseLog.Log, entry)
	exerciseLog.Count++

	return &ExerciseResult{
		ID:          user.ID,
		Username:    user.Username,
		Description: entry.Description,
		Duration:    entry.Duration,
		Date:        entry.Date,
	}, nil
}

// Logs returns a filtered copy of the user's log. Count is always the unfiltered total
func (t *Tracker) Logs(userID string, filter LogFilter) (*ExerciseLog, error) {
	t.mutex.RLock()
	stored, ok := t.logs[userID]
	if !ok {
		t.mutex.RUnlock()
		return nil, apperror.NotFound("User not found")
	}

	var exerciseLog ExerciseLog
	err := copier.CopyWithOption(&exerciseLog, stored, copier.Option{DeepCopy: true})
	t.mutex.RUnlock()
	if err != nil {
		return nil, apperror.Internal("Error getting logs", err)
	}
	if exerciseLog.Log == nil {
		exerciseLog.Log = []LogEntry{}
	}

	if filter.From != "" {
		from, err := ParseDate(filter.From)
		if err != nil {
			return nil, apperror.BadRequest("Invalid from date")
		}

		util.InPlaceFilter(&exerciseLog.Log, func(entry LogEntry) bool {
			return !entryDate(entry).Before(from)
		})
	}

	if filter.To != "" {
		to, err := ParseDate(filter.To)
		if err != nil {
			return nil, apperror.BadRequest("Invalid to date")
		}

		util.InPlaceFilter(&exerciseLog.Log, func(entry LogEntry) bool {
			return !entryDate(entry).After(to)
		})
	}

	if filter.Limit != "" {
		limit, err := strconv.Atoi(filter.Limit)
		if err != nil || limit < 0 {
			return nil, apperror.BadRequest("Invalid limit")
		}

		if limit < len(exerciseLog.Log) {
			exerciseLog.Log = exerciseLog.Log[:limit]
		}
	}

	return &exerciseLog, nil
}

func entryDate(entry LogEntry) time.Time {
	parsed, _ := time.Parse(exerciseDateLayout, entry.Date)
	return parsed
}
