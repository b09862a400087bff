package main

import (
	"LittleLemon/config"
	"LittleLemon/jwt"
	"LittleLemon/routers"
)

func main() {
	cfg, err := config.LoadConfig("config/config.yaml")
	if err != nil {
		panic("無法讀取設定檔")
	}

	jwt.Setup(cfg.Server.PrivateKeyPath, cfg.Server.PublicKeyPath)

	db, err := config.SetupMySQLConnection(cfg)
	if err != nil {
		panic("無法連接到資料庫")
	}
	defer func() {
		dbInstance, _ := db.DB()
		_ = dbInstance.Close()
	}()

	rdb, err := config.SetupRedisConnection(cfg)
	if err != nil {
		panic("無法連接到Redis")
	}
	defer rdb.Close()

	router := routers.SetupRouters(db, rdb)
	router.Run(cfg.Server.Addr)
}
