package seed

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

type memoryStore struct {
	users     []*domain.User
	instances []*domain.ProblemInstance
	failSlug  string
}

func (s *memoryStore) CreateUser(user *domain.User) error {
	s.users = append(s.users, user)
	return nil
}

func (s *memoryStore) CreateProblemInstance(instance *domain.ProblemInstance) error {
	if instance.Slug == s.failSlug {
		return errors.New("duplicate")
	}
	s.instances = append(s.instances, instance)
	return nil
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

const triangle = `<travellingSalesmanProblemInstance>
<name>triangle3</name>
<source>测试</source>
<description>三个城市</description>
<graph>
<vertex><edge cost="2">1</edge><edge cost="3">2</edge></vertex>
<vertex><edge cost="2">0</edge><edge cost="4">2</edge></vertex>
<vertex><edge cost="3">0</edge><edge cost="4">1</edge></vertex>
</graph>
</travellingSalesmanProblemInstance>`

func TestImportInstances(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.xml"), []byte(triangle), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.xml"), []byte("<broken>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.xml"), []byte(strings.Replace(triangle, `<edge cost="4">1</edge>`, "", 1)), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	store := &memoryStore{}
	cnt, err := ImportInstances(store, dir, discard)
	require.NoError(t, err)
	assert.Equal(t, 1, cnt)

	require.Len(t, store.instances, 1)
	instance := store.instances[0]
	assert.Equal(t, "triangle3", instance.Name)
	assert.Equal(t, "triangle3", instance.Slug)
	assert.Equal(t, 3, instance.CityCount)
	assert.Equal(t, 4.0, instance.Vertices[2][1].Cost)
}

func TestImportInstancesStoreFailure(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.xml"), []byte(triangle), 0o644))

	cnt, err := ImportInstances(&memoryStore{failSlug: "triangle3"}, dir, discard)
	require.NoError(t, err)
	assert.Zero(t, cnt)
}

func TestImportInstancesEmptyDir(t *testing.T) {
	_, err := ImportInstances(&memoryStore{}, t.TempDir(), discard)
	assert.Error(t, err)
}

func TestImportUsers(t *testing.T) {
	csv := strings.Join([]string{
		"姓名,邮箱,角色",
		"张三,zhangsan@example.org,管理员",
		"李四,,",
		",nobody@example.org,研究员",
		"王五,wangwu@example.org,访客",
	}, "\n")

	store := &memoryStore{}
	cnt, err := ImportUsers(store, strings.NewReader(csv), "password", "example.com", discard)
	require.NoError(t, err)
	assert.Equal(t, 2, cnt)

	require.Len(t, store.users, 2)
	assert.Equal(t, "张三", store.users[0].FullName)
	assert.Equal(t, domain.RoleAdmin, store.users[0].Role)
	assert.Equal(t, "zhangsan@example.org", store.users[0].Email)

	assert.Equal(t, domain.RoleResearcher, store.users[1].Role)
	assert.True(t, strings.HasSuffix(store.users[1].Email, "@example.com"))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(store.users[1].PasswordHash), []byte("password")))
}

func TestImportUsersHeader(t *testing.T) {
	_, err := ImportUsers(&memoryStore{}, strings.NewReader("name,email,role\n"), "password", "example.com", discard)
	assert.Error(t, err)
}
