// Package seed 向数据库批量导入问题实例和用户
package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/domain"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/tsplib"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// Store 导入时用到的持久化操作，*repository.Repository 满足该接口
type Store interface {
	CreateUser(user *domain.User) error
	CreateProblemInstance(instance *domain.ProblemInstance) error
}

var userHeaders = []string{"姓名", "邮箱", "角色"}

// ImportInstances 导入 dir 下所有 TSPLIB XML 文件，单个文件失败只记录日志
func ImportInstances(store Store, dir string, logger *slog.Logger) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.xml"))
	if err != nil {
		return 0, err
	}
	if len(paths) == 0 {
		return 0, fmt.Errorf("目录 %s 中没有 XML 文件", dir)
	}
	slices.Sort(paths)

	cnt := 0
	for _, path := range paths {
		instance, err := loadInstance(path)
		if err != nil {
			logger.Error("无法读取问题实例", "file", path, "error", err)
			continue
		}

		if err := store.CreateProblemInstance(instance); err != nil {
			logger.Error("无法插入问题实例", "file", path, "error", err)
			continue
		}

		logger.Info("插入问题实例成功", "name", instance.Name, "cities", instance.CityCount)
		cnt++
	}

	return cnt, nil
}

func loadInstance(path string) (*domain.ProblemInstance, error) {
	instance, err := tsplib.ParseFile(path)
	if err != nil {
		return nil, err
	}

	// 先构建一次图，保证入库的边都是合法的
	g, err := instance.Graph()
	if err != nil {
		return nil, err
	}

	name := instance.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return utils.NewProblemInstance(name, instance.Source, instance.Description, g.Vertices()), nil
}

// ImportUsersFile 打开 path 并调用 ImportUsers
func ImportUsersFile(store Store, path, password, emailDomain string, logger *slog.Logger) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return ImportUsers(store, file, password, emailDomain, logger)
}

/**
 * ImportUsers 从 CSV 导入用户，表头必须为 姓名,邮箱,角色
 * 邮箱为空时使用 用户名@emailDomain，角色为空时为研究员
 * 所有用户的初始密码都是 password
 */
func ImportUsers(store Store, r io.Reader, password, emailDomain string, logger *slog.Logger) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(userHeaders)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("读取表头失败: %w", err)
	}
	if !slices.Equal(headers, userHeaders) {
		return 0, fmt.Errorf("表头应为 %s，实际为 %s", strings.Join(userHeaders, ","), strings.Join(headers, ","))
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, err
	}

	cnt := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return cnt, fmt.Errorf("第 %d 行格式错误: %w", line, err)
		}

		user, err := parseUser(record, emailDomain)
		if err != nil {
			logger.Error("跳过非法的用户记录", "line", line, "error", err)
			continue
		}
		user.PasswordHash = string(passwordHash)

		if err := store.CreateUser(user); err != nil {
			logger.Error("无法插入用户", "line", line, "username", user.Username, "error", err)
			continue
		}

		cnt++
	}

	return cnt, nil
}

func parseUser(record []string, emailDomain string) (*domain.User, error) {
	fullName := strings.TrimSpace(record[0])
	if fullName == "" {
		return nil, errors.New("姓名为空")
	}

	username := utils.GenerateUsernameFromChineseName(fullName)

	email := strings.TrimSpace(record[1])
	if email == "" {
		email = username + "@" + emailDomain
	}

	role := domain.Role(strings.TrimSpace(record[2]))
	switch role {
	case "":
		role = domain.RoleResearcher
	case domain.RoleResearcher, domain.RoleAdmin:
	default:
		return nil, fmt.Errorf("未知的角色 %q", role)
	}

	return &domain.User{
		Username: username,
		FullName: fullName,
		Email:    email,
		Role:     role,
		IsActive: true,
	}, nil
}
