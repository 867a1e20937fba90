package models

import (
	"gorm.io/gorm"
)

// UploadDAO 封装 Upload/Comment 相关的数据库操作
type UploadDAO struct {
	db *gorm.DB
}

func NewUploadDAO(db *gorm.DB) *UploadDAO {
	return &UploadDAO{db: db}
}

func (dao *UploadDAO) Create(up *Upload) error {
	return dao.db.Create(up).Error
}

func (dao *UploadDAO) FindByID(id uint64) (*Upload, error) {
	var up Upload
	if err := dao.db.Where("id = ?", id).First(&up).Error; err != nil {
		return nil, err
	}
	return &up, nil
}

// List 按可选过滤条件分页列出上传记录（带上传者，created_at 倒序）
// roomID/userID 同时给出时取交集。
func (dao *UploadDAO) List(roomID, userID *uint64, limit, offset int) ([]Upload, error) {
	q := dao.db.Model(&Upload{}).Preload("User")
	if roomID != nil {
		q = q.Where("room_id = ?", *roomID)
	}
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}

	var uploads []Upload
	err := q.Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&uploads).Error
	return uploads, err
}

// CountCommentsByUploadIDs 批量统计每个上传的评论数
func (dao *UploadDAO) CountCommentsByUploadIDs(uploadIDs []uint64) (map[uint64]int64, error) {
	out := make(map[uint64]int64, len(uploadIDs))
	if len(uploadIDs) == 0 {
		return out, nil
	}

	type row struct {
		UploadID uint64
		Cnt      int64
	}
	var rows []row
	err := dao.db.Model(&Comment{}).
		Select("upload_id, COUNT(*) as cnt").
		Where("upload_id IN ?", uploadIDs).
		Group("upload_id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.UploadID] = r.Cnt
	}
	return out, nil
}

// FindCommentsByUploadID 获取某个上传的全部评论（created_at 升序，最早在前）
func (dao *UploadDAO) FindCommentsByUploadID(uploadID uint64) ([]Comment, error) {
	var comments []Comment
	err := dao.db.Where("upload_id = ?", uploadID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// DistinctCommenters 某个上传的历史评论者（去重），排除给定用户
func (dao *UploadDAO) DistinctCommenters(uploadID uint64, exclude []uint64) ([]uint64, error) {
	q := dao.db.Model(&Comment{}).
		Distinct("user_id").
		Where("upload_id = ?", uploadID)
	if len(exclude) > 0 {
		q = q.Where("user_id NOT IN ?", exclude)
	}

	var ids []uint64
	err := q.Pluck("user_id", &ids).Error
	return ids, err
}
