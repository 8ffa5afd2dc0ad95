package chefs

import (
	"cocina/bizerror"
	"cocina/domain"
	"cocina/persistence"

	"github.com/fundwit/go-commons/types"
	"github.com/jinzhu/gorm"
)

var (
	FindChefsByStationFunc = FindChefsByStation
	AllChefsFunc           = AllChefs
	FindChefFunc           = FindChef
	FindChefByAccountFunc  = FindChefByAccount
)

// FindChefsByStation returns the chefs capable of working the station,
// ordered by id so that routing scores candidates deterministically.
func FindChefsByStation(station domain.Station) ([]domain.Chef, error) {
	db := persistence.ActiveDataSourceManager.GormDB()
	var records []domain.Chef
	if err := db.Where(&domain.Chef{Station: station}).Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func AllChefs() ([]domain.Chef, error) {
	db := persistence.ActiveDataSourceManager.GormDB()
	var records []domain.Chef
	if err := db.Order("id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func FindChefByAccount(account string) (*domain.Chef, error) {
	db := persistence.ActiveDataSourceManager.GormDB()
	chef := domain.Chef{}
	if err := db.Where(&domain.Chef{Account: account}).First(&chef).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	return &chef, nil
}

func FindChef(id types.ID) (*domain.Chef, error) {
	db := persistence.ActiveDataSourceManager.GormDB()
	chef := domain.Chef{}
	if err := db.Where(&domain.Chef{ID: id}).First(&chef).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	return &chef, nil
}
