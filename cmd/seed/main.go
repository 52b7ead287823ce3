package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/config"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/repository"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/seed"
	"github.com/sysu-ecnc-dev/tsp-evolver/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var cities int
	var path string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入随机问题实例, 3: 导入 TSPLIB 目录, 4: 从 CSV 导入用户)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.IntVar(&cities, "cities", 20, "随机问题实例的城市数量")
	flag.StringVar(&path, "path", "", "TSPLIB XML 所在的目录或用户 CSV 文件")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", "error", err)
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 不会立即连接数据库，需要显式 ping
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		logger.Error("未指定操作")
	case 1:
		if n <= 0 {
			logger.Error("请输入合法的用户数量")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Seed.EmailDomain)
			if err != nil {
				logger.Error("无法生成随机用户", "error", err)
				continue
			}

			if err := repo.CreateUser(user); err != nil {
				logger.Error("无法插入用户", "error", err)
				continue
			}

			cnt++
		}

		logger.Info("插入用户成功", "count", cnt)
	case 2:
		if n <= 0 || cities < 2 {
			logger.Error("请输入合法的实例数量和城市数量")
			return
		}

		cnt := 0
		for i := 0; i < n; i++ {
			if err := repo.CreateProblemInstance(utils.GenerateRandomProblemInstance(cities)); err != nil {
				logger.Error("无法插入问题实例", "error", err)
				continue
			}

			cnt++
		}

		logger.Info("插入问题实例成功", "count", cnt)
	case 3:
		if path == "" {
			logger.Error("请通过 -path 指定 TSPLIB 目录")
			return
		}

		cnt, err := seed.ImportInstances(repo, path, logger)
		if err != nil {
			logger.Error("导入问题实例失败", "error", err)
			return
		}

		logger.Info("导入问题实例完成", "count", cnt)
	case 4:
		if path == "" {
			logger.Error("请通过 -path 指定用户 CSV 文件")
			return
		}

		cnt, err := seed.ImportUsersFile(repo, path, cfg.Seed.User.Password, cfg.Seed.EmailDomain, logger)
		if err != nil {
			logger.Error("导入用户失败", "error", err)
			return
		}

		logger.Info("导入用户完成", "count", cnt)
	default:
		logger.Error("指定的操作非法")
	}
}
