package repositories

import (
	"github.com/splatmarket/splatmarket/app/models"
	"github.com/splatmarket/splatmarket/pkg/orm"
	"gorm.io/gorm"
)

type UserRepository struct {
	base
}

// NewUserRepository builds a repository. db may be nil to use the shared
// connection.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{base{db: db}}
}

func (r *UserRepository) Create(user *models.User) error {
	return r.query().Create(user)
}

func (r *UserRepository) Find(id uint) (*models.User, error) {
	var user models.User
	if err := r.query().Where("id = ?", id).First(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail returns gorm.ErrRecordNotFound when no account uses email.
func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.query().Model(&models.User{}).Where("email = ?", email).First(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) List(p orm.Pagination) ([]models.User, error) {
	var users []models.User
	if err := r.query().Model(&models.User{}).Paginate(p).Get(&users); err != nil {
		return nil, err
	}
	return users, nil
}
