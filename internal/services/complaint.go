package services

import (
	"sync"
	"time"

	"github.com/hamroaawaz/complaint-server/internal/models"
	"github.com/hamroaawaz/complaint-server/internal/storage"
)

const complaintsFile = "complaints.json"

// ComplaintService is the complaint repository. It exclusively owns the
// complaints collection. Creating a complaint reads the users collection
// through the credential store (its own lock); only the complaints lock is
// held for the mutating portion.
type ComplaintService struct {
	mu    sync.Mutex
	store *storage.Store
	users *UserService
}

// NewComplaintService creates a complaint service over the given store.
func NewComplaintService(store *storage.Store, users *UserService) *ComplaintService {
	return &ComplaintService{store: store, users: users}
}

// Create files a new complaint for the authenticated author. The author's
// municipality and ward come from their stored profile, not the token; a
// token id that no longer resolves to a user fails with ErrUserNotFound.
// The new id is max(existing ids)+1.
func (s *ComplaintService) Create(authorID int, authorPhone, title, content, imageURL string) (*models.Complaint, error) {
	author, err := s.users.GetByID(authorID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var complaints []models.Complaint
	s.store.Load(complaintsFile, &complaints)

	maxID := 0
	for _, c := range complaints {
		if c.ID > maxID {
			maxID = c.ID
		}
	}

	complaint := models.Complaint{
		ID:           maxID + 1,
		Title:        title,
		Content:      content,
		AuthorID:     authorID,
		AuthorPhone:  authorPhone,
		Municipality: author.Municipality,
		Ward:         author.Ward,
		Status:       models.StatusOpen,
		CreatedAt:    time.Now(),
		Upvotes:      0,
		UpvotedBy:    []int{},
		ImageURL:     imageURL,
	}

	complaints = append(complaints, complaint)
	if err := s.store.Save(complaintsFile, complaints); err != nil {
		return nil, dependency("save complaints", err)
	}
	return &complaint, nil
}

// List returns a snapshot of all complaints. Ordering is left to the
// presentation layer.
func (s *ComplaintService) List() ([]models.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var complaints []models.Complaint
	s.store.Load(complaintsFile, &complaints)
	return complaints, nil
}

// Upvote adds userID to the complaint's upvoted-by set and returns the new
// count. A second vote by the same user fails with ErrAlreadyVoted and
// changes nothing. The count is recomputed from the set, keeping
// upvotes == len(upvoted_by).
func (s *ComplaintService) Upvote(complaintID, userID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var complaints []models.Complaint
	s.store.Load(complaintsFile, &complaints)

	c := findComplaint(complaints, complaintID)
	if c == nil {
		return 0, ErrComplaintNotFound
	}
	if c.HasVoter(userID) {
		return 0, ErrAlreadyVoted
	}

	c.UpvotedBy = append(c.UpvotedBy, userID)
	c.Upvotes = len(c.UpvotedBy)

	if err := s.store.Save(complaintsFile, complaints); err != nil {
		return 0, dependency("save complaints", err)
	}
	return c.Upvotes, nil
}

// Unvote removes userID from the upvoted-by set and returns the new count.
// Unvoting without a prior vote fails with ErrNotVoted.
func (s *ComplaintService) Unvote(complaintID, userID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var complaints []models.Complaint
	s.store.Load(complaintsFile, &complaints)

	c := findComplaint(complaints, complaintID)
	if c == nil {
		return 0, ErrComplaintNotFound
	}
	if !c.HasVoter(userID) {
		return 0, ErrNotVoted
	}

	kept := c.UpvotedBy[:0]
	for _, id := range c.UpvotedBy {
		if id != userID {
			kept = append(kept, id)
		}
	}
	c.UpvotedBy = kept
	c.Upvotes = len(c.UpvotedBy)

	if err := s.store.Save(complaintsFile, complaints); err != nil {
		return 0, dependency("save complaints", err)
	}
	return c.Upvotes, nil
}

// SetStatus sets a complaint's status. Any of the known statuses may be set
// from any other; staff may reopen a completed complaint. Returns the
// updated complaint so callers can record the matching activity entry.
func (s *ComplaintService) SetStatus(complaintID int, status models.Status) (*models.Complaint, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var complaints []models.Complaint
	s.store.Load(complaintsFile, &complaints)

	c := findComplaint(complaints, complaintID)
	if c == nil {
		return nil, ErrComplaintNotFound
	}
	c.Status = status

	if err := s.store.Save(complaintsFile, complaints); err != nil {
		return nil, dependency("save complaints", err)
	}
	out := *c
	return &out, nil
}

func findComplaint(complaints []models.Complaint, id int) *models.Complaint {
	for i := range complaints {
		if complaints[i].ID == id {
			return &complaints[i]
		}
	}
	return nil
}
