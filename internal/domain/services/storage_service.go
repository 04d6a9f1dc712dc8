package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/hudaazehraa/neighborly/internal/infrastructure/config"
)

// 允许上传的图片扩展名
var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// InterfaceStorageService 定义附件存储服务接口
type InterfaceStorageService interface {
	SaveComplaintImage(file *multipart.FileHeader) (string, error)
}

// StorageService 保存投诉图片附件，优先使用S3兼容存储，未配置时落盘到本地目录
type StorageService struct {
	Config *config.Config
}

// NewStorageService 创建一个新的存储服务
func NewStorageService(cfg *config.Config) InterfaceStorageService {
	return &StorageService{
		Config: cfg,
	}
}

// SaveComplaintImage 保存投诉图片，返回可访问的路径或URL
func (s *StorageService) SaveComplaintImage(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("打开上传文件失败: %v", err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "", fmt.Errorf("读取上传文件失败: %v", err)
	}

	// 使用UUID生成存储文件名，保留原始扩展名
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != "" && !allowedImageExt[ext] {
		return "", fmt.Errorf("不支持的图片格式: %s", ext)
	}
	fileName := uuid.New().String() + ext

	if s.Config.S3Enabled() {
		return s.uploadToS3(data, fileName, file.Header.Get("Content-Type"))
	}
	return s.saveToLocalDir(data, fileName)
}

// uploadToS3 上传文件到S3兼容服务
func (s *StorageService) uploadToS3(data []byte, fileName, contentType string) (string, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(s.Config.S3Region),
		Endpoint: aws.String(s.Config.S3Endpoint),
		Credentials: credentials.NewStaticCredentials(
			s.Config.S3AccessKey, s.Config.S3SecretKey, "",
		),
	})
	if err != nil {
		return "", fmt.Errorf("创建S3会话失败: %v", err)
	}

	if contentType == "" {
		contentType = "image/jpeg"
	}

	key := "complaint_images/" + fileName
	_, err = s3.New(sess).PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.Config.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("上传文件到S3失败: %v", err)
	}

	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.Config.S3Endpoint, "/"), s.Config.S3Bucket, key), nil
}

// saveToLocalDir 保存文件到本地上传目录
func (s *StorageService) saveToLocalDir(data []byte, fileName string) (string, error) {
	dir := filepath.Join(s.Config.UploadDir, "complaint_images")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("创建上传目录失败: %v", err)
	}

	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("保存上传文件失败: %v", err)
	}

	return "/" + filepath.ToSlash(path), nil
}
