package sqlstore

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/invoicing/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 1. 按database.driver选择方言(mysql默认,postgres走pgx,sqlite用于本地和测试)
// 2. 配置连接池参数
// 3. 开发环境开启SQL日志
// 4. auto_migrate开启时自动迁移表结构
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := Open(cfg.Database, cfg.Server.Mode == "debug")
	if err != nil {
		return nil, err
	}

	log.Info("数据库连接成功",
		zap.String("driver", cfg.Database.Driver),
		zap.String("dbname", cfg.Database.DBName),
	)

	if cfg.Database.AutoMigrate {
		if err := AutoMigrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}
	return db, nil
}

// Open 打开连接并配置连接池
func Open(dbCfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	// 1. 方言
	var dialector gorm.Dialector
	switch dbCfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(dbCfg.DSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(dbCfg.DSN())
	default:
		dialector = mysql.Open(dbCfg.DSN())
	}

	// 2. SQL日志
	logLevel := logger.Silent
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true, // 唯一索引冲突转换为gorm.ErrDuplicatedKey
		NowFunc:        time.Now,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 3. 连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	if dbCfg.Driver == config.DriverSQLite {
		// SQLite同一时刻只允许一个写者,单连接避免database is locked
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(dbCfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(dbCfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(dbCfg.ConnMaxLifetime)
	}

	// 4. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}
	return db, nil
}

// Close 关闭底层连接池
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate 自动迁移表结构
// 只会建表、加字段,生产环境应使用版本化迁移脚本
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&StaffModel{},
		&BookModel{},
	)
}

// StaffModel GORM店员模型
type StaffModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码(bcrypt加密)"`
	Nickname  string         `gorm:"size:50;not null;comment:昵称"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间(软删除)"`
}

// TableName 指定表名
func (StaffModel) TableName() string {
	return "staff"
}

// BookModel GORM图书模型
// 1. ISBN是主键(业务主键,创建后不可修改)
// 2. 分类以逗号拼接存储,查询用LIKE子串匹配
// 3. Stock允许为NULL(历史数据),读取时视为0
// 4. 价格使用int64存储"分"
type BookModel struct {
	ISBN       string    `gorm:"primaryKey;size:32;comment:ISBN号"`
	Title      string    `gorm:"index;size:200;not null;comment:书名"`
	Author     string    `gorm:"index;size:100;not null;comment:作者"`
	Categories string    `gorm:"size:500;not null;default:'';comment:分类(逗号分隔)"`
	Price      int64     `gorm:"not null;default:0;comment:价格(分)"`
	Stock      *int      `gorm:"comment:库存数量"`
	Sell       int       `gorm:"index;not null;default:0;comment:累计销量"` // 畅销榜排序
	CreatedAt  time.Time `gorm:"comment:创建时间"`
	UpdatedAt  time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}
