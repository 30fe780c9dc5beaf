package service

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"quiz-engine-service/internal/apierr"
	"quiz-engine-service/internal/event"
	"quiz-engine-service/internal/models"
	"quiz-engine-service/internal/repository"
)

type EnrollmentService struct {
	Repo   EnrollmentStore
	Events Publisher
}

func NewEnrollmentService(repo EnrollmentStore, events Publisher) *EnrollmentService {
	return &EnrollmentService{Repo: repo, Events: events}
}

// Enroll creates the single enrollment for a (user, course) pair. The
// unique index makes a duplicate a conflict, not a second enrollment.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	userObj, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, apierr.Validation("invalid user id", nil)
	}
	courseObj, err := primitive.ObjectIDFromHex(courseID)
	if err != nil {
		return nil, apierr.Validation("invalid course id", nil)
	}

	enrollment := &models.Enrollment{
		UserID:   userObj,
		CourseID: courseObj,
		Status:   models.EnrollmentActive,
	}
	if err := s.Repo.Create(ctx, enrollment); err != nil {
		if errors.Is(err, repository.ErrDuplicateEnrollment) {
			return nil, apierr.Conflict("Already enrolled in this course")
		}
		return nil, err
	}

	if s.Events != nil {
		if err := s.Events.Publish(event.EnrollmentCreated, map[string]interface{}{
			"enrollment_id": enrollment.ID.Hex(),
			"user_id":       userID,
			"course_id":     courseID,
		}); err != nil {
			log.Printf("event: %s publish failed: %v", event.EnrollmentCreated, err)
		}
	}
	return enrollment, nil
}

// GetEnrollment returns the caller's enrollment in a course.
func (s *EnrollmentService) GetEnrollment(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	enrollment, err := s.Repo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierr.NotFound("Not enrolled in this course")
		}
		return nil, err
	}
	return enrollment, nil
}
