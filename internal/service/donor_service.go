package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/projectreach/reach_go_server/internal/model"
	"github.com/projectreach/reach_go_server/internal/model/dto"
	"github.com/projectreach/reach_go_server/internal/repository"
)

var (
	ErrDonorNotFound = errors.New("捐赠人不存在")
)

type DonorService struct {
	donorRepo    *repository.DonorRepository
	donationRepo *repository.DonationRepository
	subRepo      *repository.SubscriptionRepository
}

func NewDonorService(
	donorRepo *repository.DonorRepository,
	donationRepo *repository.DonationRepository,
	subRepo *repository.SubscriptionRepository,
) *DonorService {
	return &DonorService{
		donorRepo:    donorRepo,
		donationRepo: donationRepo,
		subRepo:      subRepo,
	}
}

// Resolve 按邮箱取回捐赠人，不存在则创建。
// 并发的同邮箱请求靠唯一约束收敛到同一行
func (s *DonorService) Resolve(email, name string) (*model.Donor, error) {
	if name == "" {
		name = email
	}
	return s.donorRepo.CreateIfAbsent(&model.Donor{
		Name:               name,
		Email:              email,
		SubscriptionStatus: model.DonorSubscriptionNone,
	})
}

func (s *DonorService) Get(id int64) (*model.Donor, error) {
	donor, err := s.donorRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonorNotFound
		}
		return nil, err
	}
	return donor, nil
}

func (s *DonorService) GetByEmail(email string) (*model.Donor, error) {
	donor, err := s.donorRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDonorNotFound
		}
		return nil, err
	}
	return donor, nil
}

func (s *DonorService) List(offset, limit int) ([]*model.Donor, int64, error) {
	return s.donorRepo.List(offset, limit)
}

func (s *DonorService) Update(id int64, req *dto.UpdateDonorRequest) (*model.Donor, error) {
	donor, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if len(fields) == 0 {
		return donor, nil
	}

	if err := s.donorRepo.UpdateFields(id, fields); err != nil {
		return nil, err
	}
	return s.Get(id)
}

// ComputeDonorStatus 由捐赠人的全部订阅推导其汇总状态：
// 任一 active 即 active；否则任一 past_due/trialing 记 past_due；其余为 none
func ComputeDonorStatus(subs []*model.Subscription) string {
	hasPastDue := false
	for _, sub := range subs {
		switch sub.Status {
		case model.SubscriptionStatusActive:
			return model.DonorSubscriptionActive
		case model.SubscriptionStatusPastDue, model.SubscriptionStatusTrialing:
			hasPastDue = true
		}
	}
	if hasPastDue {
		return model.DonorSubscriptionPastDue
	}
	return model.DonorSubscriptionNone
}

// RecomputeSubscriptionStatus 重算并写回捐赠人的订阅汇总状态
func (s *DonorService) RecomputeSubscriptionStatus(donorID int64) (string, error) {
	subs, err := s.subRepo.ListByDonorID(donorID)
	if err != nil {
		return "", err
	}

	status := ComputeDonorStatus(subs)
	if err := s.donorRepo.UpdateSubscriptionStatus(donorID, status); err != nil {
		return "", err
	}
	return status, nil
}

// Summary 捐赠人汇总视图：累计捐赠、笔数、订阅状态
func (s *DonorService) Summary(id int64) (*dto.DonorSummary, error) {
	donor, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	total, err := s.donationRepo.SumCompletedByDonor(id)
	if err != nil {
		return nil, err
	}

	count, err := s.donationRepo.CountByDonorID(id)
	if err != nil {
		return nil, err
	}

	summary := &dto.DonorSummary{
		DonorID:            donor.ID,
		Name:               donor.Name,
		Email:              donor.Email,
		TotalDonated:       total,
		DonationCount:      count,
		SubscriptionStatus: donor.SubscriptionStatus,
	}

	subs, err := s.subRepo.ListByDonorID(id)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		if sub.Status == model.SubscriptionStatusActive {
			summary.ActiveSubscription = sub
			break
		}
	}

	return summary, nil
}
