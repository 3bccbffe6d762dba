package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/projectreach/reach_go_server/internal/model"
	"github.com/projectreach/reach_go_server/internal/model/dto"
	"github.com/projectreach/reach_go_server/internal/repository"
	"github.com/projectreach/reach_go_server/internal/testutil"
)

func newCampaignService(db *gorm.DB) *CampaignService {
	return NewCampaignService(
		repository.NewCampaignRepository(db),
		repository.NewDonationRepository(db),
	)
}

func TestCampaignService_RecomputeAggregate_MixedPayments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newCampaignService(db)

	campaign := testutil.TestCampaign(t, db, testutil.WithGoal(1000))
	donor := testutil.TestDonor(t, db)

	testutil.TestDonation(t, db, donor.ID,
		testutil.WithCampaign(campaign.ID), testutil.WithAmount(100))
	testutil.TestDonation(t, db, donor.ID,
		testutil.WithCampaign(campaign.ID), testutil.WithAmount(60),
		testutil.WithPaymentType(model.PaymentTypeSubscription))
	testutil.TestDonation(t, db, donor.ID,
		testutil.WithCampaign(campaign.ID), testutil.WithAmount(500),
		testutil.WithPaymentStatus(model.PaymentStatusPending))
	testutil.TestDonation(t, db, donor.ID,
		testutil.WithCampaign(campaign.ID), testutil.WithAmount(300),
		testutil.WithPaymentStatus(model.PaymentStatusFailed))

	total, err := svc.RecomputeAggregate(context.Background(), campaign.ID)
	require.NoError(t, err)
	assert.InDelta(t, 160, total, 0.001)

	updated, err := svc.Get(campaign.ID)
	require.NoError(t, err)
	assert.InDelta(t, 160, updated.CurrentAmount, 0.001)
	assert.Equal(t, model.CampaignStatusOpen, updated.Status)
}

func TestCampaignService_RecomputeAggregate_GoalReached(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newCampaignService(db)

	campaign := testutil.TestCampaign(t, db, testutil.WithGoal(100))
	donor := testutil.TestDonor(t, db)
	testutil.TestDonation(t, db, donor.ID,
		testutil.WithCampaign(campaign.ID), testutil.WithAmount(120))

	total, err := svc.RecomputeAggregate(context.Background(), campaign.ID)
	require.NoError(t, err)
	assert.InDelta(t, 120, total, 0.001)

	updated, err := svc.Get(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignStatusFinished, updated.Status)

	// 再次重算是幂等的，状态不回退
	_, err = svc.RecomputeAggregate(context.Background(), campaign.ID)
	require.NoError(t, err)
	updated, err = svc.Get(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignStatusFinished, updated.Status)
}

func TestCampaignService_RecomputeAggregate_ExpiredCampaign(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newCampaignService(db)

	campaign := testutil.TestCampaign(t, db,
		testutil.WithGoal(1000),
		testutil.WithEndDate(time.Now().Add(-time.Hour)))
	donor := testutil.TestDonor(t, db)
	testutil.TestDonation(t, db, donor.ID,
		testutil.WithCampaign(campaign.ID), testutil.WithAmount(10))

	_, err := svc.RecomputeAggregate(context.Background(), campaign.ID)
	require.NoError(t, err)

	updated, err := svc.Get(campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignStatusFinished, updated.Status)
}

func TestCampaignService_RecomputeAggregate_Concurrent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newCampaignService(db)

	campaign := testutil.TestCampaign(t, db, testutil.WithGoal(100000))
	donor := testutil.TestDonor(t, db)
	for i := 0; i < 10; i++ {
		testutil.TestDonation(t, db, donor.ID,
			testutil.WithCampaign(campaign.ID), testutil.WithAmount(10))
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.RecomputeAggregate(context.Background(), campaign.ID)
		}()
	}
	wg.Wait()

	updated, err := svc.Get(campaign.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100, updated.CurrentAmount, 0.001)
}

func TestCampaignService_Update_StatusRules(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newCampaignService(db)

	campaign := testutil.TestCampaign(t, db)

	// open -> closed 人工关停允许
	closed := model.CampaignStatusClosed
	updated, err := svc.Update(campaign.ID, &dto.UpdateCampaignRequest{Status: &closed})
	require.NoError(t, err)
	assert.Equal(t, model.CampaignStatusClosed, updated.Status)

	// 终态不允许重新打开
	open := model.CampaignStatusOpen
	_, err = svc.Update(campaign.ID, &dto.UpdateCampaignRequest{Status: &open})
	assert.ErrorIs(t, err, ErrCampaignFinalized)

	// open 活动不允许直接人工标记 finished
	fresh := testutil.TestCampaign(t, db)
	finished := model.CampaignStatusFinished
	_, err = svc.Update(fresh.ID, &dto.UpdateCampaignRequest{Status: &finished})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCampaignService_Progress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newCampaignService(db)

	campaign := testutil.TestCampaign(t, db, testutil.WithGoal(200))
	donor := testutil.TestDonor(t, db)
	testutil.TestDonation(t, db, donor.ID,
		testutil.WithCampaign(campaign.ID), testutil.WithAmount(50))

	_, err := svc.RecomputeAggregate(context.Background(), campaign.ID)
	require.NoError(t, err)

	progress, err := svc.Progress(campaign.ID)
	require.NoError(t, err)
	assert.InDelta(t, 25, progress.ProgressPercentage, 0.001)
	assert.InDelta(t, 50, progress.CurrentAmount, 0.001)
}

func TestCampaignService_Sweep_FinishesExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newCampaignService(db)

	expired := testutil.TestCampaign(t, db,
		testutil.WithEndDate(time.Now().Add(-24*time.Hour)))
	active := testutil.TestCampaign(t, db,
		testutil.WithEndDate(time.Now().Add(30*24*time.Hour)))

	require.NoError(t, svc.Sweep(context.Background(), 7))

	finished, err := svc.Get(expired.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignStatusFinished, finished.Status)

	stillOpen, err := svc.Get(active.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignStatusOpen, stillOpen.Status)
}

// 巡检必须重算所有进行中的活动：账本已达标但未到期的活动也要收敛并结束
func TestCampaignService_Sweep_RecomputesOpenCampaigns(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newCampaignService(db)

	campaign := testutil.TestCampaign(t, db,
		testutil.WithGoal(100),
		testutil.WithEndDate(time.Now().Add(30*24*time.Hour)))
	donor := testutil.TestDonor(t, db)
	testutil.TestDonation(t, db, donor.ID,
		testutil.WithCampaign(campaign.ID), testutil.WithAmount(150))

	require.NoError(t, svc.Sweep(context.Background(), 7))

	updated, err := svc.Get(campaign.ID)
	require.NoError(t, err)
	assert.InDelta(t, 150, updated.CurrentAmount, 0.001)
	assert.Equal(t, model.CampaignStatusFinished, updated.Status)
}

type spyNotifier struct {
	mu       sync.Mutex
	expiring map[int64]int // campaignID -> daysLeft
	finished []int64
}

func newSpyNotifier() *spyNotifier {
	return &spyNotifier{expiring: make(map[int64]int)}
}

func (n *spyNotifier) ThankYou(*model.Donor, *model.Campaign, float64) {}

func (n *spyNotifier) CampaignFinished(campaign *model.Campaign) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.finished = append(n.finished, campaign.ID)
}

func (n *spyNotifier) ExpiringSoon(campaign *model.Campaign, daysLeft int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.expiring[campaign.ID] = daysLeft
}

func TestCampaignService_Sweep_NotifiesExpiringSoon(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newCampaignService(db)
	notifier := newSpyNotifier()
	svc.SetNotifier(notifier)

	soon := testutil.TestCampaign(t, db,
		testutil.WithEndDate(time.Now().Add(3*24*time.Hour)))
	far := testutil.TestCampaign(t, db,
		testutil.WithEndDate(time.Now().Add(30*24*time.Hour)))

	require.NoError(t, svc.Sweep(context.Background(), 7))

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	daysLeft, ok := notifier.expiring[soon.ID]
	assert.True(t, ok)
	assert.Equal(t, 2, daysLeft)
	_, ok = notifier.expiring[far.ID]
	assert.False(t, ok)
}

func TestIsExpiringSoon(t *testing.T) {
	now := time.Now()

	inThree := now.Add(3 * 24 * time.Hour)
	inThirty := now.Add(30 * 24 * time.Hour)
	past := now.Add(-time.Hour)

	soon := &model.Campaign{Status: model.CampaignStatusOpen, EndDate: &inThree}
	assert.True(t, IsExpiringSoon(soon, now, 7))

	far := &model.Campaign{Status: model.CampaignStatusOpen, EndDate: &inThirty}
	assert.False(t, IsExpiringSoon(far, now, 7))

	expired := &model.Campaign{Status: model.CampaignStatusOpen, EndDate: &past}
	assert.False(t, IsExpiringSoon(expired, now, 7))

	noEnd := &model.Campaign{Status: model.CampaignStatusOpen}
	assert.False(t, IsExpiringSoon(noEnd, now, 7))

	closedSoon := &model.Campaign{Status: model.CampaignStatusClosed, EndDate: &inThree}
	assert.False(t, IsExpiringSoon(closedSoon, now, 7))
}

func TestCampaignService_Create_InvalidEndDate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	svc := newCampaignService(db)

	_, err := svc.Create(&dto.CreateCampaignRequest{
		Name:       "Bad Date",
		GoalAmount: 100,
		EndDate:    "not-a-date",
	})
	assert.Error(t, err)
}
