package utils

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"unicode"

	"github.com/mozillazg/go-pinyin"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/domain"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/evolution"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() string {
	var sb strings.Builder
	sb.WriteString(commonSurnames[rand.IntN(len(commonSurnames))])

	nameLength := rand.IntN(2) + 1
	for i := 0; i < nameLength; i++ {
		sb.WriteString(commonNameCharacters[rand.IntN(len(commonNameCharacters))])
	}
	return sb.String()
}

// 管理员只占少数
func GenerateRandomRole() domain.Role {
	if rand.IntN(10) == 0 {
		return domain.RoleAdmin
	}
	return domain.RoleResearcher
}

const digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	var sb strings.Builder
	for _, py := range pinyin.LazyConvert(chineseName, nil) {
		sb.WriteString(py[:rand.IntN(len(py))+1])
	}

	digitsLength := rand.IntN(3) + 1
	for i := 0; i < digitsLength; i++ {
		sb.WriteByte(digits[rand.IntN(len(digits))])
	}
	return sb.String()
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
	}, nil
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	password := make([]rune, length)
	for i := range password {
		password[i] = letters[rand.IntN(len(letters))]
	}
	return string(password)
}

// GenerateRandomID 前 letterLength 位为小写字母，后 digitLength 位为数字
func GenerateRandomID(letterLength int, digitLength int) string {
	id := make([]byte, letterLength+digitLength)
	for i := range id {
		if i < letterLength {
			id[i] = byte('a' + rand.IntN(26))
		} else {
			id[i] = digits[rand.IntN(len(digits))]
		}
	}
	return string(id)
}

/**
 * GenerateSlug 把实例名转换成只包含小写字母、数字和连字符的标识
 * 汉字转换为不带声调的拼音，其余符号视为分隔符
 */
func GenerateSlug(name string) string {
	parts := make([]string, 0)
	var word strings.Builder

	flush := func() {
		if word.Len() > 0 {
			parts = append(parts, word.String())
			word.Reset()
		}
	}

	for _, r := range name {
		switch {
		case unicode.Is(unicode.Han, r):
			flush()
			parts = append(parts, pinyin.LazyConvert(string(r), nil)...)
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			word.WriteRune(unicode.ToLower(r))
		default:
			flush()
		}
	}
	flush()

	return strings.Join(parts, "-")
}

/**
 * GenerateRandomProblemInstance 在 1000x1000 的平面上随机撒点，生成对称的完全图
 * 代价取欧氏距离的整数部分，与 TSPLIB 中 EUC_2D 实例的精度一致
 */
func GenerateRandomProblemInstance(cities int) *domain.ProblemInstance {
	xs := make([]float64, cities)
	ys := make([]float64, cities)
	for i := range xs {
		xs[i] = rand.Float64() * 1000
		ys[i] = rand.Float64() * 1000
	}

	vertices := make([][]evolution.Edge, cities)
	for i := range vertices {
		vertices[i] = make([]evolution.Edge, 0, cities-1)
		for j := 0; j < cities; j++ {
			if i == j {
				continue
			}
			vertices[i] = append(vertices[i], evolution.Edge{
				Destination: j,
				Cost:        math.Floor(math.Hypot(xs[i]-xs[j], ys[i]-ys[j])),
			})
		}
	}

	name := fmt.Sprintf("随机实例%d-%s", cities, GenerateRandomID(3, 3))
	return NewProblemInstance(name, "随机生成", fmt.Sprintf("%d 个城市的随机欧氏平面实例", cities), vertices)
}

// NewProblemInstance 根据名称生成 slug，名称中没有可用字符时使用随机标识
func NewProblemInstance(name, source, description string, vertices [][]evolution.Edge) *domain.ProblemInstance {
	slug := GenerateSlug(name)
	if slug == "" {
		slug = "instance-" + GenerateRandomID(4, 4)
	}

	return &domain.ProblemInstance{
		Name:        name,
		Slug:        slug,
		Source:      source,
		Description: description,
		CityCount:   len(vertices),
		Vertices:    vertices,
	}
}
