package metrics

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestBuilder_HTTPMiddlewares(t *testing.T) {
	reg := prometheus.NewRegistry()
	b := &Builder{Namespace: "articles", Name: "http", Registerer: reg}

	respTime, err := b.ResponseTime()
	require.NoError(t, err)
	active, err := b.ActiveRequests()
	require.NoError(t, err)

	r := gin.New()
	r.Use(respTime, active)
	r.GET("/articles/:id", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })
	r.GET("/metrics", Handler(reg))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/articles/1", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	count, err := testutil.GatherAndCount(reg, "articles_http_resp_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `articles_http_resp_seconds_count{method="GET",pattern="/articles/:id",status="200"} 2`)
	assert.Contains(t, body, "articles_http_active_req")
}

func TestBuilder_DuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	b := &Builder{Name: "http", Registerer: reg}
	_, err := b.ActiveRequests()
	require.NoError(t, err)
	_, err = b.ActiveRequests()
	assert.Error(t, err)
}

func TestCallbacks_ObserveQueries(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	cb := &Callbacks{Namespace: "articles", Name: "db_seconds", Registerer: reg}
	require.NoError(t, cb.Register(db))

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `widgets`")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	type widget struct{ ID uint }
	var out []widget
	require.NoError(t, db.Table("widgets").Find(&out).Error)
	require.NoError(t, mock.ExpectationsWereMet())

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	metric := families[0].GetMetric()
	require.Len(t, metric, 1)
	assert.Equal(t, uint64(1), metric[0].GetHistogram().GetSampleCount())

	labels := map[string]string{}
	for _, lp := range metric[0].GetLabel() {
		labels[lp.GetName()] = lp.GetValue()
	}
	assert.Equal(t, "query", labels["type"])
	assert.Equal(t, "widgets", labels["table"])
	assert.True(t, strings.HasPrefix(families[0].GetName(), "articles_db_seconds"))
}
