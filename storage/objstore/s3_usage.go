package objstore

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/VictoriaMetrics/metrics"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	s3GetRequests = metrics.NewCounter(`csvsort_s3_requests_total{op="get"}`)
	s3PutRequests = metrics.NewCounter(`csvsort_s3_requests_total{op="put"}`)
)

// S3Usage counts billable requests. GETs are cheap requests and PUTs are
// expensive ones.
type S3Usage struct {
	cheapRequests     atomic.Int64
	expensiveRequests atomic.Int64
}

// Cost per 1,000 requests in microdollars (1 dollar = 1,000,000 microdollars)
const (
	cheapCostPerThousand     = 400   // $0.0004 = 400 microdollars
	expensiveCostPerThousand = 5_000 // $0.005 = 5000 microdollars
)

func (s *S3Usage) AddCheapRequest() {
	s.cheapRequests.Add(1)
	s3GetRequests.Inc()
}

func (s *S3Usage) AddExpensiveRequest() {
	s.expensiveRequests.Add(1)
	s3PutRequests.Inc()
}

func (s *S3Usage) Requests() (cheap, expensive int64) {
	return s.cheapRequests.Load(), s.expensiveRequests.Load()
}

// TotalCost returns the request cost formatted as USD.
func (s *S3Usage) TotalCost() string {
	cheap, expensive := s.Requests()
	total := (cheap*cheapCostPerThousand)/1000 + (expensive*expensiveCostPerThousand)/1000

	dollars := total / 1_000_000
	cents := (total % 1_000_000) / 10_000
	if dollars > 0 || cents > 0 {
		return fmt.Sprintf("$%d.%02d", dollars, cents)
	}
	return fmt.Sprintf("$0.%04d", (total%10_000)/100)
}

// MeteredS3Service records the requests it forwards to an S3Service.
type MeteredS3Service struct {
	S3Service
	Usage *S3Usage
}

func NewMeteredS3Service(svc S3Service) *MeteredS3Service {
	return &MeteredS3Service{S3Service: svc, Usage: &S3Usage{}}
}

func (m *MeteredS3Service) GetObject(ctx context.Context, input *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.Usage.AddCheapRequest()
	return m.S3Service.GetObject(ctx, input, optFns...)
}

func (m *MeteredS3Service) PutObject(ctx context.Context, input *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	m.Usage.AddExpensiveRequest()
	return m.S3Service.PutObject(ctx, input, optFns...)
}

var _ S3Service = (*MeteredS3Service)(nil)
