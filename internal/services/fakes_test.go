package services

import (
	"context"
	"sync"
	"time"

	"github.com/dglmedia/adops-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory repository fakes with the same not-found semantics as the mongodb
// implementations (mongo.ErrNoDocuments). All fakes are safe for concurrent
// use so the allocation race tests can hammer them.

type fakeDeploymentRepo struct {
	mu          sync.Mutex
	deployments map[primitive.ObjectID]*models.Deployment
	failUpdate  error
}

func newFakeDeploymentRepo() *fakeDeploymentRepo {
	return &fakeDeploymentRepo{deployments: make(map[primitive.ObjectID]*models.Deployment)}
}

func copyDeployment(d *models.Deployment) *models.Deployment {
	cp := *d
	cp.LCDSlots = make([]models.Slot, len(d.LCDSlots))
	copy(cp.LCDSlots, d.LCDSlots)
	return &cp
}

func (r *fakeDeploymentRepo) Create(_ context.Context, deployment *models.Deployment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if deployment.ID.IsZero() {
		deployment.ID = primitive.NewObjectID()
	}
	deployment.CreatedAt = time.Now()
	deployment.UpdatedAt = deployment.CreatedAt
	r.deployments[deployment.ID] = copyDeployment(deployment)
	return nil
}

func (r *fakeDeploymentRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Deployment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.deployments[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return copyDeployment(d), nil
}

func (r *fakeDeploymentRepo) FindByMaterialAndDriver(_ context.Context, materialID, driverID string) (*models.Deployment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.deployments {
		if d.MaterialID == materialID && d.DriverID == driverID {
			return copyDeployment(d), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeDeploymentRepo) FindByMaterial(_ context.Context, materialID string) ([]*models.Deployment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Deployment{}
	for _, d := range r.deployments {
		if d.MaterialID == materialID {
			out = append(out, copyDeployment(d))
		}
	}
	return out, nil
}

func (r *fakeDeploymentRepo) FindByDriver(_ context.Context, driverID string) ([]*models.Deployment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Deployment{}
	for _, d := range r.deployments {
		if d.DriverID == driverID {
			out = append(out, copyDeployment(d))
		}
	}
	return out, nil
}

func (r *fakeDeploymentRepo) FindByAd(_ context.Context, adID primitive.ObjectID) ([]*models.Deployment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Deployment{}
	for _, d := range r.deployments {
		if d.AdID == adID {
			out = append(out, copyDeployment(d))
			continue
		}
		for i := range d.LCDSlots {
			if d.LCDSlots[i].AdID == adID {
				out = append(out, copyDeployment(d))
				break
			}
		}
	}
	return out, nil
}

func (r *fakeDeploymentRepo) FindDirect(_ context.Context, adID primitive.ObjectID, materialID, driverID string) (*models.Deployment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.deployments {
		if d.AdID == adID && d.MaterialID == materialID && d.DriverID == driverID {
			return copyDeployment(d), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeDeploymentRepo) FindActive(_ context.Context, now time.Time) ([]*models.Deployment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Deployment{}
	for _, d := range r.deployments {
		if d.CurrentStatus.Active() && !d.StartTime.After(now) && d.EndTime.After(now) {
			out = append(out, copyDeployment(d))
			continue
		}
		for i := range d.LCDSlots {
			s := &d.LCDSlots[i]
			if s.Active() && !s.StartTime.After(now) && s.EndTime.After(now) {
				out = append(out, copyDeployment(d))
				break
			}
		}
	}
	return out, nil
}

func (r *fakeDeploymentRepo) Update(_ context.Context, deployment *models.Deployment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdate != nil {
		return r.failUpdate
	}
	if _, ok := r.deployments[deployment.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	deployment.UpdatedAt = time.Now()
	r.deployments[deployment.ID] = copyDeployment(deployment)
	return nil
}

func (r *fakeDeploymentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.deployments[id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(r.deployments, id)
	return nil
}

type fakeAdRepo struct {
	mu  sync.Mutex
	ads map[primitive.ObjectID]*models.Ad
}

func newFakeAdRepo() *fakeAdRepo {
	return &fakeAdRepo{ads: make(map[primitive.ObjectID]*models.Ad)}
}

func (r *fakeAdRepo) Create(_ context.Context, ad *models.Ad) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ad.ID.IsZero() {
		ad.ID = primitive.NewObjectID()
	}
	cp := *ad
	r.ads[ad.ID] = &cp
	return nil
}

func (r *fakeAdRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ad, ok := r.ads[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *ad
	return &cp, nil
}

func (r *fakeAdRepo) FindByUserID(_ context.Context, userID primitive.ObjectID) ([]*models.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Ad{}
	for _, ad := range r.ads {
		if ad.UserID == userID {
			cp := *ad
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAdRepo) FindByLifecycleStatus(_ context.Context, status models.AdLifecycleStatus) ([]*models.Ad, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Ad{}
	for _, ad := range r.ads {
		if ad.AdStatus == status {
			cp := *ad
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAdRepo) Update(_ context.Context, ad *models.Ad) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ads[ad.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	cp := *ad
	r.ads[ad.ID] = &cp
	return nil
}

type fakeMaterialRepo struct {
	mu        sync.Mutex
	materials map[string]*models.Material
}

func newFakeMaterialRepo() *fakeMaterialRepo {
	return &fakeMaterialRepo{materials: make(map[string]*models.Material)}
}

func (r *fakeMaterialRepo) Create(_ context.Context, material *models.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if material.ID.IsZero() {
		material.ID = primitive.NewObjectID()
	}
	cp := *material
	r.materials[material.MaterialID] = &cp
	return nil
}

func (r *fakeMaterialRepo) CreateMany(ctx context.Context, materials []*models.Material) error {
	for _, m := range materials {
		if err := r.Create(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeMaterialRepo) FindByMaterialID(_ context.Context, materialID string) (*models.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.materials[materialID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *m
	return &cp, nil
}

func (r *fakeMaterialRepo) FindAll(_ context.Context) ([]*models.Material, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Material{}
	for _, m := range r.materials {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeMaterialRepo) Update(_ context.Context, material *models.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.materials[material.MaterialID]; !ok {
		return mongo.ErrNoDocuments
	}
	cp := *material
	r.materials[material.MaterialID] = &cp
	return nil
}

func (r *fakeMaterialRepo) AssignDriver(_ context.Context, materialID, driverID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.materials[materialID]
	if !ok {
		return mongo.ErrNoDocuments
	}
	m.DriverID = driverID
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[primitive.ObjectID]*models.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[primitive.ObjectID]*models.Payment)}
}

func (r *fakePaymentRepo) Create(_ context.Context, payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if payment.ID.IsZero() {
		payment.ID = primitive.NewObjectID()
	}
	cp := *payment
	r.payments[payment.ID] = &cp
	return nil
}

func (r *fakePaymentRepo) FindByID(_ context.Context, id primitive.ObjectID) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	cp := *p
	return &cp, nil
}

func (r *fakePaymentRepo) FindByReference(_ context.Context, reference string) (*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.payments {
		if p.Reference == reference {
			cp := *p
			return &cp, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakePaymentRepo) FindByAdID(_ context.Context, adID primitive.ObjectID) ([]*models.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Payment{}
	for _, p := range r.payments {
		if p.AdID == adID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) Update(_ context.Context, payment *models.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.payments[payment.ID]; !ok {
		return mongo.ErrNoDocuments
	}
	cp := *payment
	r.payments[payment.ID] = &cp
	return nil
}
