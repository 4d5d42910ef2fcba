package quota

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/talentsift/talentsift/internal/models"
)

// mockProfiles implements ProfilesRepository for testing
type mockProfiles struct {
	profile    *models.Profile
	increments []int
}

func (m *mockProfiles) GetByID(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	if m.profile == nil || m.profile.ID != id {
		return nil, nil
	}
	return m.profile, nil
}

func (m *mockProfiles) IncrementResumeUsage(_ context.Context, _ uuid.UUID, delta int) (*models.Profile, error) {
	m.increments = append(m.increments, delta)
	m.profile.ResumeUsage += delta
	return m.profile, nil
}

func TestReconciler_IncrementsByCompletedCount(t *testing.T) {
	log := zerolog.Nop()
	profiles := &mockProfiles{profile: &models.Profile{ID: uuid.New(), ResumeUsage: 10, ResumeLimit: 50}}
	r := NewReconciler(profiles, &log)

	updated, err := r.Reconcile(context.Background(), profiles.profile.ID, 3)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if updated.ResumeUsage != 13 {
		t.Errorf("ResumeUsage = %d, want 13", updated.ResumeUsage)
	}
	if len(profiles.increments) != 1 || profiles.increments[0] != 3 {
		t.Errorf("unexpected increments: %v", profiles.increments)
	}
}

func TestReconciler_UnlimitedPlanSkipsWrite(t *testing.T) {
	log := zerolog.Nop()
	profiles := &mockProfiles{profile: &models.Profile{ID: uuid.New(), ResumeUsage: 10, ResumeLimit: -1}}
	r := NewReconciler(profiles, &log)

	updated, err := r.Reconcile(context.Background(), profiles.profile.ID, 7)
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if updated.ResumeUsage != 10 {
		t.Errorf("unlimited plan must not be counted, usage = %d", updated.ResumeUsage)
	}
	if len(profiles.increments) != 0 {
		t.Errorf("unexpected write for unlimited plan: %v", profiles.increments)
	}
}

func TestReconciler_ZeroCompletedIsNoop(t *testing.T) {
	log := zerolog.Nop()
	profiles := &mockProfiles{profile: &models.Profile{ID: uuid.New(), ResumeUsage: 10, ResumeLimit: 50}}
	r := NewReconciler(profiles, &log)

	if _, err := r.Reconcile(context.Background(), profiles.profile.ID, 0); err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}

	if len(profiles.increments) != 0 {
		t.Errorf("batch with zero completions must not write: %v", profiles.increments)
	}
}

func TestReconciler_UnknownProfile(t *testing.T) {
	log := zerolog.Nop()
	r := NewReconciler(&mockProfiles{}, &log)

	if _, err := r.Reconcile(context.Background(), uuid.New(), 1); err == nil {
		t.Error("expected error for unknown profile")
	}
}
