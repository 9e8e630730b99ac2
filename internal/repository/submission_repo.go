package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/eduapp/classroom-api/internal/models"
)

// SubmissionFilter allows narrowing submission queries.
type SubmissionFilter struct {
	AssignmentID *uint
	StudentID    *uint
	Status       *string
}

// SubmissionRepository defines data operations for submissions, answers and
// feedback.
type SubmissionRepository interface {
	List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error)
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uint) (models.Submission, error)
	// SaveWithAnswers persists the submission and replaces its full answer
	// set inside one transaction: a concurrent reader never observes a
	// submission with a partially replaced answer set.
	SaveWithAnswers(ctx context.Context, submission *models.Submission, answers []models.Answer) error
	Update(ctx context.Context, submission *models.Submission) error
	// UpsertFeedback keeps at most one feedback row per submission,
	// overwriting the comment and re-attributing it on re-grade.
	UpsertFeedback(ctx context.Context, feedback *models.Feedback) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Submission{}).
		Preload("Assignment").
		Preload("Student").
		Preload("Answers").
		Preload("Feedback").
		Preload("Feedback.Teacher")
}

func (r *submissionRepository) List(ctx context.Context, filter SubmissionFilter) ([]models.Submission, error) {
	query := r.baseQuery(ctx)

	if filter.AssignmentID != nil {
		query = query.Where("assignment_id = ?", *filter.AssignmentID)
	}

	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var submissions []models.Submission
	if err := query.Order("updated_at DESC").Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) GetByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.baseQuery(ctx).
		Where("assignment_id = ?", assignmentID).
		Where("student_id = ?", studentID).
		First(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) SaveWithAnswers(ctx context.Context, submission *models.Submission, answers []models.Answer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if submission.ID == 0 {
			if err := tx.Omit("Answers", "Feedback", "Assignment", "Student").Create(submission).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Omit("Answers", "Feedback", "Assignment", "Student").Save(submission).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("submission_id = ?", submission.ID).Delete(&models.Answer{}).Error; err != nil {
			return err
		}

		if len(answers) == 0 {
			return nil
		}

		for i := range answers {
			answers[i].ID = 0
			answers[i].SubmissionID = submission.ID
		}

		return tx.Create(&answers).Error
	})
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).
		Omit("Answers", "Feedback", "Assignment", "Student").
		Save(submission).Error
}

func (r *submissionRepository) UpsertFeedback(ctx context.Context, feedback *models.Feedback) error {
	var existing models.Feedback
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", feedback.SubmissionID).
		First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.WithContext(ctx).Create(feedback).Error
		}
		return err
	}

	existing.Comment = feedback.Comment
	existing.TeacherID = feedback.TeacherID
	if err := r.db.WithContext(ctx).Save(&existing).Error; err != nil {
		return err
	}

	*feedback = existing
	return nil
}
