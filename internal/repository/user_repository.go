package repository

import (
	"context"
	"strings"
	"time"

	"waste-service/internal/model"
	"waste-service/prometheus"

	"gorm.io/gorm"
)

// UserQuery filters the admin user listing
type UserQuery struct {
	Role   model.Role
	Ward   *int
	Search string
	Page   int
	Limit  int
}

// UserRepository stores accounts
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a UserRepository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts user; a taken email is a Conflict
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	defer prometheus.TrackDBOperation("create_user")(time.Now())
	return translate(r.db.WithContext(ctx).Create(user).Error, "user")
}

// FindByEmail looks a user up by normalized email
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

// FindByID looks a user up by id
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

// UpdateProfile writes the mutable profile columns of user
func (r *UserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	defer prometheus.TrackDBOperation("update_user")(time.Now())

	result := r.db.WithContext(ctx).Model(user).
		Select("name", "address", "phone", "ward_number").
		Updates(user)
	if result.Error != nil {
		return translate(result.Error, "user")
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "user")
	}
	return nil
}

// List returns one page of users matching q and the total match count
func (r *UserRepository) List(ctx context.Context, q UserQuery) ([]model.User, int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	query := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&model.User{}).Scopes(userFilters(q))
	}

	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, 0, translate(err, "user")
	}

	var users []model.User
	if err := query().Order("created_at DESC").Scopes(paginate(q.Page, q.Limit)).Find(&users).Error; err != nil {
		return nil, 0, translate(err, "user")
	}
	return users, total, nil
}

func userFilters(q UserQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.Role != "" {
			db = db.Where("role = ?", q.Role)
		}
		if q.Ward != nil {
			db = db.Where("ward_number = ?", *q.Ward)
		}
		if search := strings.TrimSpace(q.Search); search != "" {
			like := "%" + search + "%"
			db = db.Where("(name ILIKE ? OR email ILIKE ?)", like, like)
		}
		return db
	}
}
