package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 定义了后台管理员账号，只有与配置中 admin email 一致的账号可以登录
type User struct {
	ID       uint   `gorm:"primaryKey"`
	Email    string `gorm:"size:255;uniqueIndex;not null"`
	Password string `gorm:"not null"`
}

// EnsureAdmin 存在性检查：若邮箱与密码均非空且不存在对应账号，则创建一个 bcrypt 哈希的管理员。
// 已存在的账号会更新为新密码，便于通过环境变量轮换。
func EnsureAdmin(gdb *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return nil
	}

	if gdb == nil {
		return errors.New("database not initialized")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	var existing User
	if err := gdb.Where("email = ?", email).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return gdb.Create(&User{Email: email, Password: string(hashed)}).Error
	}

	if bcrypt.CompareHashAndPassword([]byte(existing.Password), []byte(password)) == nil {
		return nil
	}
	return gdb.Model(&existing).Update("password", string(hashed)).Error
}

// Authenticate 校验邮箱与密码，成功时返回账号。
func Authenticate(gdb *gorm.DB, email, password string) (*User, error) {
	var user User
	if err := gdb.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, err
	}
	return &user, nil
}
