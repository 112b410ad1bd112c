package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/hamroaawaz/complaint-server/internal/models"
)

func newComplaintFixture(t *testing.T) (*ComplaintService, *UserService) {
	t.Helper()
	store := newTestStore(t)
	users := NewUserService(store)
	return NewComplaintService(store, users), users
}

func mustRegister(t *testing.T, users *UserService, phone string) *models.User {
	t.Helper()
	u, err := users.Register(registerRequest(phone))
	if err != nil {
		t.Fatalf("Register(%s) error = %v", phone, err)
	}
	return u
}

func TestCreateComplaint(t *testing.T) {
	svc, users := newComplaintFixture(t)
	author := mustRegister(t, users, "9811000001")

	c, err := svc.Create(author.ID, author.Phone, "Pothole", "Large pothole on the main road", "")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if c.ID != 1 {
		t.Errorf("id = %d, want 1", c.ID)
	}
	if c.Status != models.StatusOpen {
		t.Errorf("status = %q, want %q", c.Status, models.StatusOpen)
	}
	if c.Upvotes != 0 || len(c.UpvotedBy) != 0 {
		t.Errorf("new complaint has votes: upvotes=%d upvoted_by=%v", c.Upvotes, c.UpvotedBy)
	}
	// Municipality and ward come from the author's stored profile.
	if c.Municipality != "Lalitpur" || c.Ward != "3" {
		t.Errorf("location = %s/%s, want Lalitpur/3", c.Municipality, c.Ward)
	}
	if c.AuthorID != author.ID || c.AuthorPhone != author.Phone {
		t.Errorf("author = %d/%s, want %d/%s", c.AuthorID, c.AuthorPhone, author.ID, author.Phone)
	}

	second, err := svc.Create(author.ID, author.Phone, "Streetlight", "Broken streetlight", "")
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != 2 {
		t.Errorf("second id = %d, want 2", second.ID)
	}
}

func TestCreateComplaintUnknownAuthor(t *testing.T) {
	svc, _ := newComplaintFixture(t)

	_, err := svc.Create(999, "9811000001", "Pothole", "...", "")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Create() error = %v, want %v", err, ErrUserNotFound)
	}
}

func TestVoteToggle(t *testing.T) {
	svc, users := newComplaintFixture(t)
	author := mustRegister(t, users, "9811000001")
	voterA := mustRegister(t, users, "9811000002")
	voterB := mustRegister(t, users, "9811000003")

	c, err := svc.Create(author.ID, author.Phone, "Pothole", "...", "")
	if err != nil {
		t.Fatal(err)
	}

	// Two distinct users upvote sequentially.
	if n, err := svc.Upvote(c.ID, voterA.ID); err != nil || n != 1 {
		t.Fatalf("first Upvote() = %d, %v; want 1, nil", n, err)
	}
	if n, err := svc.Upvote(c.ID, voterB.ID); err != nil || n != 2 {
		t.Fatalf("second Upvote() = %d, %v; want 2, nil", n, err)
	}

	// Same user again: conflict, count unchanged.
	if _, err := svc.Upvote(c.ID, voterA.ID); !errors.Is(err, ErrAlreadyVoted) {
		t.Errorf("double Upvote() error = %v, want %v", err, ErrAlreadyVoted)
	}
	assertVoteInvariant(t, svc, c.ID, 2)

	// First voter unvotes.
	if n, err := svc.Unvote(c.ID, voterA.ID); err != nil || n != 1 {
		t.Fatalf("Unvote() = %d, %v; want 1, nil", n, err)
	}
	assertVoteInvariant(t, svc, c.ID, 1)

	// Unvote without a vote: conflict.
	if _, err := svc.Unvote(c.ID, voterA.ID); !errors.Is(err, ErrNotVoted) {
		t.Errorf("repeat Unvote() error = %v, want %v", err, ErrNotVoted)
	}
	assertVoteInvariant(t, svc, c.ID, 1)
}

func TestVoteUnknownComplaint(t *testing.T) {
	svc, users := newComplaintFixture(t)
	voter := mustRegister(t, users, "9811000001")

	if _, err := svc.Upvote(42, voter.ID); !errors.Is(err, ErrComplaintNotFound) {
		t.Errorf("Upvote() error = %v, want %v", err, ErrComplaintNotFound)
	}
	if _, err := svc.Unvote(42, voter.ID); !errors.Is(err, ErrComplaintNotFound) {
		t.Errorf("Unvote() error = %v, want %v", err, ErrComplaintNotFound)
	}
}

func TestConcurrentUpvotes(t *testing.T) {
	svc, users := newComplaintFixture(t)
	author := mustRegister(t, users, "9811000001")

	c, err := svc.Create(author.ID, author.Phone, "Pothole", "...", "")
	if err != nil {
		t.Fatal(err)
	}

	const voters = 10
	voterIDs := make([]int, voters)
	for i := 0; i < voters; i++ {
		voterIDs[i] = mustRegister(t, users, fmt.Sprintf("98120000%02d", i)).ID
	}

	var wg sync.WaitGroup
	for _, id := range voterIDs {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if _, err := svc.Upvote(c.ID, id); err != nil {
				t.Errorf("Upvote(%d) error = %v", id, err)
			}
		}(id)
	}
	wg.Wait()

	assertVoteInvariant(t, svc, c.ID, voters)
}

func TestSetStatus(t *testing.T) {
	svc, users := newComplaintFixture(t)
	author := mustRegister(t, users, "9811000001")

	c, err := svc.Create(author.ID, author.Phone, "Pothole", "...", "")
	if err != nil {
		t.Fatal(err)
	}

	// Transitions are staff-discretionary: forward, direct, and regressions
	// are all allowed.
	steps := []models.Status{
		models.StatusWorking,
		models.StatusCompleted,
		models.StatusOpen, // reopen
		models.StatusCompleted,
	}
	for _, status := range steps {
		updated, err := svc.SetStatus(c.ID, status)
		if err != nil {
			t.Fatalf("SetStatus(%s) error = %v", status, err)
		}
		if updated.Status != status {
			t.Errorf("status = %q, want %q", updated.Status, status)
		}
	}

	if _, err := svc.SetStatus(c.ID, "resolved"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("SetStatus(resolved) error = %v, want %v", err, ErrInvalidStatus)
	}
	if _, err := svc.SetStatus(999, models.StatusWorking); !errors.Is(err, ErrComplaintNotFound) {
		t.Errorf("SetStatus(999) error = %v, want %v", err, ErrComplaintNotFound)
	}
}

// assertVoteInvariant checks upvotes == len(upvoted_by) == want on the
// stored complaint.
func assertVoteInvariant(t *testing.T, svc *ComplaintService, complaintID, want int) {
	t.Helper()
	complaints, err := svc.List()
	if err != nil {
		t.Fatal(err)
	}
	for i := range complaints {
		if complaints[i].ID != complaintID {
			continue
		}
		c := &complaints[i]
		if c.Upvotes != len(c.UpvotedBy) {
			t.Errorf("invariant broken: upvotes=%d upvoted_by=%v", c.Upvotes, c.UpvotedBy)
		}
		if c.Upvotes != want {
			t.Errorf("upvotes = %d, want %d", c.Upvotes, want)
		}
		seen := make(map[int]bool)
		for _, id := range c.UpvotedBy {
			if seen[id] {
				t.Errorf("user %d appears twice in upvoted_by", id)
			}
			seen[id] = true
		}
		return
	}
	t.Fatalf("complaint %d not found", complaintID)
}
