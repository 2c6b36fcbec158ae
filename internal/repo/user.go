package repo

import (
	"context"
	"time"

	"github.com/Skotchmaster/tossplace/internal/models"
	"github.com/Skotchmaster/tossplace/pkg/errs"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return err
	}
	return translate(conn.Create(u).Error, "user")
}

// UserTaken reports whether another user already holds username or email.
func (r *GormRepo) UserTaken(ctx context.Context, username, email string, excludeID int64) (bool, error) {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return false, err
	}

	var count int64
	if err := conn.Model(&models.User{}).
		Where("(username = ? OR email = ?) AND id <> ?", username, email, excludeID).
		Count(&count).Error; err != nil {
		return false, translate(err, "user")
	}
	return count > 0, nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := conn.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (r *GormRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := conn.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (r *GormRepo) UpdateUserProfile(ctx context.Context, u *models.User) error {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return err
	}

	res := conn.Model(&models.User{}).Where("id = ?", u.ID).Updates(map[string]any{
		"username":          u.Username,
		"email":             u.Email,
		"full_name":         u.FullName,
		"profile_image_url": u.ProfileImageURL,
		"bio":               u.Bio,
		"phone":             u.Phone,
		"address":           u.Address,
		"updated_at":        time.Now().UTC(),
	})
	if res.Error != nil {
		return translate(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *GormRepo) SetUserActive(ctx context.Context, id int64, active bool) error {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return err
	}

	res := conn.Model(&models.User{}).Where("id = ?", id).Updates(map[string]any{
		"is_active":  active,
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return translate(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}
