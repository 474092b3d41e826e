package service

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/dsa-tracker/backend/internal/domain"
)

// In-memory repository fakes implementing the domain interfaces. They
// mirror the relational store's observable behavior closely enough for
// service-level tests: ordering, joins, and the upsert semantics.

type fakeTopicRepo struct {
	topics   map[uuid.UUID]*domain.Topic
	problems *fakeProblemRepo
}

func newFakeTopicRepo(problems *fakeProblemRepo) *fakeTopicRepo {
	return &fakeTopicRepo{
		topics:   make(map[uuid.UUID]*domain.Topic),
		problems: problems,
	}
}

func (r *fakeTopicRepo) Create(topic *domain.Topic) error {
	copied := *topic
	r.topics[topic.ID] = &copied
	return nil
}

func (r *fakeTopicRepo) FindByID(id uuid.UUID) (*domain.Topic, error) {
	topic, ok := r.topics[id]
	if !ok {
		return nil, domain.ErrTopicNotFound
	}
	copied := *topic
	copied.Problems = r.problems.byTopicOrdered(id)
	return &copied, nil
}

func (r *fakeTopicRepo) FindAllOrdered() ([]domain.Topic, error) {
	topics := make([]domain.Topic, 0, len(r.topics))
	for _, topic := range r.topics {
		copied := *topic
		copied.Problems = r.problems.byTopicOrdered(topic.ID)
		topics = append(topics, copied)
	}
	sort.Slice(topics, func(i, j int) bool {
		return topics[i].Order < topics[j].Order
	})
	return topics, nil
}

func (r *fakeTopicRepo) Update(topic *domain.Topic) error {
	if _, ok := r.topics[topic.ID]; !ok {
		return domain.ErrTopicNotFound
	}
	copied := *topic
	copied.Problems = nil
	r.topics[topic.ID] = &copied
	return nil
}

func (r *fakeTopicRepo) Delete(id uuid.UUID) error {
	if _, ok := r.topics[id]; !ok {
		return domain.ErrTopicNotFound
	}
	delete(r.topics, id)
	return nil
}

type fakeProblemRepo struct {
	problems map[uuid.UUID]*domain.Problem
	topics   map[uuid.UUID]*domain.Topic
}

func newFakeProblemRepo() *fakeProblemRepo {
	return &fakeProblemRepo{
		problems: make(map[uuid.UUID]*domain.Problem),
		topics:   make(map[uuid.UUID]*domain.Topic),
	}
}

func (r *fakeProblemRepo) Create(problem *domain.Problem) error {
	copied := *problem
	r.problems[problem.ID] = &copied
	return nil
}

func (r *fakeProblemRepo) FindByID(id uuid.UUID) (*domain.Problem, error) {
	problem, ok := r.problems[id]
	if !ok {
		return nil, domain.ErrProblemNotFound
	}
	copied := *problem
	copied.Topic = r.topics[problem.TopicID]
	return &copied, nil
}

func (r *fakeProblemRepo) FindAll(filter domain.ProblemFilter) ([]domain.Problem, error) {
	problems := make([]domain.Problem, 0, len(r.problems))
	for _, problem := range r.problems {
		if filter.TopicID != nil && problem.TopicID != *filter.TopicID {
			continue
		}
		if filter.Difficulty != nil && problem.Difficulty != *filter.Difficulty {
			continue
		}
		copied := *problem
		copied.Topic = r.topics[problem.TopicID]
		problems = append(problems, copied)
	}
	sort.Slice(problems, func(i, j int) bool {
		ti, tj := 0, 0
		if t := r.topics[problems[i].TopicID]; t != nil {
			ti = t.Order
		}
		if t := r.topics[problems[j].TopicID]; t != nil {
			tj = t.Order
		}
		if ti != tj {
			return ti < tj
		}
		return problems[i].Order < problems[j].Order
	})
	return problems, nil
}

func (r *fakeProblemRepo) Update(problem *domain.Problem) error {
	if _, ok := r.problems[problem.ID]; !ok {
		return domain.ErrProblemNotFound
	}
	copied := *problem
	copied.Topic = nil
	r.problems[problem.ID] = &copied
	return nil
}

func (r *fakeProblemRepo) Delete(id uuid.UUID) error {
	if _, ok := r.problems[id]; !ok {
		return domain.ErrProblemNotFound
	}
	delete(r.problems, id)
	return nil
}

func (r *fakeProblemRepo) CountByDifficulty() (map[domain.Difficulty]int64, error) {
	counts := make(map[domain.Difficulty]int64)
	for _, problem := range r.problems {
		counts[problem.Difficulty]++
	}
	return counts, nil
}

func (r *fakeProblemRepo) byTopicOrdered(topicID uuid.UUID) []domain.Problem {
	var problems []domain.Problem
	for _, problem := range r.problems {
		if problem.TopicID == topicID {
			problems = append(problems, *problem)
		}
	}
	sort.Slice(problems, func(i, j int) bool {
		return problems[i].Order < problems[j].Order
	})
	return problems
}

type progressKey struct {
	userID    uuid.UUID
	problemID uuid.UUID
}

type fakeProgressRepo struct {
	rows     map[progressKey]*domain.UserProgress
	problems *fakeProblemRepo
}

func newFakeProgressRepo(problems *fakeProblemRepo) *fakeProgressRepo {
	return &fakeProgressRepo{
		rows:     make(map[progressKey]*domain.UserProgress),
		problems: problems,
	}
}

func (r *fakeProgressRepo) upsert(userID, problemID uuid.UUID, flip bool) (*domain.UserProgress, error) {
	key := progressKey{userID: userID, problemID: problemID}
	row, ok := r.rows[key]
	if !ok {
		row = &domain.UserProgress{
			ID:        uuid.New(),
			UserID:    userID,
			ProblemID: problemID,
			Completed: true,
			CreatedAt: time.Now(),
		}
		r.rows[key] = row
	} else if flip {
		row.Completed = !row.Completed
	} else {
		row.Completed = true
	}
	row.UpdatedAt = time.Now()

	copied := *row
	if problem, err := r.problems.FindByID(problemID); err == nil {
		copied.Problem = problem
	}
	return &copied, nil
}

func (r *fakeProgressRepo) ToggleUpsert(userID, problemID uuid.UUID) (*domain.UserProgress, error) {
	return r.upsert(userID, problemID, true)
}

func (r *fakeProgressRepo) CompleteUpsert(userID, problemID uuid.UUID) (*domain.UserProgress, error) {
	return r.upsert(userID, problemID, false)
}

func (r *fakeProgressRepo) FindByUser(userID uuid.UUID) ([]domain.UserProgress, error) {
	var rows []domain.UserProgress
	for key, row := range r.rows {
		if key.userID != userID {
			continue
		}
		copied := *row
		if problem, err := r.problems.FindByID(row.ProblemID); err == nil {
			copied.Problem = problem
		}
		rows = append(rows, copied)
	}
	sort.Slice(rows, func(i, j int) bool {
		pi, pj := rows[i].Problem, rows[j].Problem
		if pi == nil || pj == nil {
			return false
		}
		ti, tj := 0, 0
		if pi.Topic != nil {
			ti = pi.Topic.Order
		}
		if pj.Topic != nil {
			tj = pj.Topic.Order
		}
		if ti != tj {
			return ti < tj
		}
		return pi.Order < pj.Order
	})
	return rows, nil
}

func (r *fakeProgressRepo) CompletionByUser(userID uuid.UUID) (map[uuid.UUID]bool, error) {
	completion := make(map[uuid.UUID]bool)
	for key, row := range r.rows {
		if key.userID == userID {
			completion[key.problemID] = row.Completed
		}
	}
	return completion, nil
}

func (r *fakeProgressRepo) DeleteByUser(userID uuid.UUID) error {
	for key := range r.rows {
		if key.userID == userID {
			delete(r.rows, key)
		}
	}
	return nil
}

func (r *fakeProgressRepo) CountCompletedByDifficulty(userID uuid.UUID) (map[domain.Difficulty]int64, error) {
	counts := make(map[domain.Difficulty]int64)
	for key, row := range r.rows {
		if key.userID != userID || !row.Completed {
			continue
		}
		if problem, ok := r.problems.problems[key.problemID]; ok {
			counts[problem.Difficulty]++
		}
	}
	return counts, nil
}

func (r *fakeProgressRepo) rowCount(userID uuid.UUID) int {
	n := 0
	for key := range r.rows {
		if key.userID == userID {
			n++
		}
	}
	return n
}

// fixture wires the fakes together so topics, problems and progress rows
// stay consistent across the simulated joins
type fixture struct {
	topics   *fakeTopicRepo
	problems *fakeProblemRepo
	progress *fakeProgressRepo
}

func newFixture() *fixture {
	problems := newFakeProblemRepo()
	return &fixture{
		topics:   newFakeTopicRepo(problems),
		problems: problems,
		progress: newFakeProgressRepo(problems),
	}
}

func (f *fixture) addTopic(title string, order int) *domain.Topic {
	topic := &domain.Topic{ID: uuid.New(), Title: title, Order: order}
	f.topics.Create(topic)
	f.problems.topics[topic.ID] = topic
	return topic
}

func (f *fixture) addProblem(topic *domain.Topic, title string, difficulty domain.Difficulty, order int) *domain.Problem {
	problem := &domain.Problem{
		ID:         uuid.New(),
		Title:      title,
		Difficulty: difficulty,
		Order:      order,
		TopicID:    topic.ID,
	}
	f.problems.Create(problem)
	return problem
}

type fakeUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) Create(user *domain.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return domain.ErrUserAlreadyExists
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(id uuid.UUID) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}
