package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/saiyam0211/smart-urban-backend/internal/models"
)

func TestDashboardAggregates(t *testing.T) {
	f := newProblemFixture(t)
	svc := NewAnalyticsService(f.problems, f.vols)

	p1 := f.report(t, models.CategoryWaste)
	f.report(t, models.CategoryWaste)
	f.report(t, models.CategoryAirPollution)

	_, err := f.svc.Transition(context.Background(), p1.ID, models.ProblemStatusAssigned, f.volunteer)
	require.NoError(t, err)
	_, err = f.svc.Transition(context.Background(), p1.ID, models.ProblemStatusSolved, f.volunteer)
	require.NoError(t, err)

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, d.TotalReports)
	require.Equal(t, 1, d.ImpactMetrics.TotalResolved)
	require.InDelta(t, 33.3, d.ResolutionRate, 0.05)
	require.Equal(t, 2, d.CategoryDistribution[models.CategoryWaste])
	require.Equal(t, 1, d.CategoryDistribution[models.CategoryAirPollution])
	require.Equal(t, 1, d.ActiveVolunteers)
	require.NotEmpty(t, d.ImpactMetrics.ActiveAreas)
	require.Equal(t, 3, d.ImpactMetrics.ActiveAreas[0].ReportCount)
}

func TestDashboardEmptyWindow(t *testing.T) {
	f := newProblemFixture(t)
	svc := NewAnalyticsService(f.problems, f.vols)

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	require.Zero(t, d.TotalReports)
	require.Zero(t, d.ResolutionRate)
	require.Zero(t, d.ReportGrowth)
	require.Empty(t, d.ImpactMetrics.ActiveAreas)
}
