package db

import (
	"github.com/SistemaFretes/api-agendamento/internal/config"
	"gorm.io/gorm"
)

func GetDB(cfg *config.Config) (*gorm.DB, error) {
	return ConnectDataBase(cfg.DBPorta, cfg.DBHost, cfg.DBNome, cfg.DBUsuario, cfg.DBSenha, cfg.DBSSLModeDisable)
}
